package repository

import (
	"context"
	"errors"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const DefaultQuotationsTableName = "cotizaciones"

type vendedorItem struct {
	UID    string `dynamodbav:"uid"`
	Nombre string `dynamodbav:"nombre"`
	Email  string `dynamodbav:"email"`
}

// Optional prices are omitted when unset; an absent key and a stored zero
// are different things.
type lineItemItem struct {
	Articulo          string  `dynamodbav:"articulo"`
	URL               string  `dynamodbav:"url"`
	Unidades          int64   `dynamodbav:"unidades"`
	PrecioCliente     string  `dynamodbav:"precio_cliente"`
	PrecioSolicitado  *string `dynamodbav:"precio_solicitado,omitempty"`
	PrecioCotizado    *string `dynamodbav:"precio_cotizado,omitempty"`
	PrecioCompetencia *string `dynamodbav:"precio_competencia,omitempty"`
}

type comentarioItem struct {
	Autor string `dynamodbav:"autor"`
	Texto string `dynamodbav:"texto"`
	Fecha string `dynamodbav:"fecha"`
}

// precio_anterior and fecha_decision are written as NULL when unset.
type quotationItem struct {
	ID                  string           `dynamodbav:"id"`
	Numero              string           `dynamodbav:"numero"`
	Cliente             string           `dynamodbav:"cliente"`
	Tarifa              string           `dynamodbav:"tarifa"`
	Articulos           []lineItemItem   `dynamodbav:"articulos"`
	Estado              string           `dynamodbav:"estado"`
	Workflow            string           `dynamodbav:"workflow"`
	Vendedor            vendedorItem     `dynamodbav:"vendedor"`
	StockDisponible     bool             `dynamodbav:"stock_disponible"`
	CompradoAntes       bool             `dynamodbav:"comprado_antes"`
	PrecioAnterior      *string          `dynamodbav:"precio_anterior"`
	FechaDecision       *string          `dynamodbav:"fecha_decision"`
	PlazoEntrega        string           `dynamodbav:"plazo_entrega"`
	LugarEntrega        string           `dynamodbav:"lugar_entrega"`
	ComentarioStock     string           `dynamodbav:"comentario_stock"`
	Licitacion          bool             `dynamodbav:"licitacion"`
	ClienteFinal        string           `dynamodbav:"cliente_final"`
	FormaPagoActual     string           `dynamodbav:"forma_pago_actual"`
	FormaPagoSolicitada string           `dynamodbav:"forma_pago_solicitada"`
	ComentariosCliente  string           `dynamodbav:"comentarios_cliente"`
	PrecioCompetencia   *string          `dynamodbav:"precio_competencia,omitempty"`
	ComentariosPrivados []comentarioItem `dynamodbav:"comentarios_privados"`
	FechaCreacion       string           `dynamodbav:"fecha_creacion"`
	UpdatedAt           string           `dynamodbav:"updated_at"`
}

// QuotationDynamoRepository persists Quotation documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// List views scan the whole table; the data set is one sales team's
// quotations.

type QuotationDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IQuotationRepository = (*QuotationDynamoRepository)(nil)

func NewQuotationDynamoRepository(ddb DynamoDBAPI, tableName string) *QuotationDynamoRepository {
	return &QuotationDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, DefaultQuotationsTableName),
	}
}

func (r *QuotationDynamoRepository) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return entities.Quotation{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	return q, nil
}

func (r *QuotationDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quotation, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quotation{}, nil
	}

	var it quotationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quotation{}, err
	}
	return fromQuotationItem(it), nil
}

func (r *QuotationDynamoRepository) List(ctx context.Context) ([]entities.Quotation, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})

	var out []entities.Quotation
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []quotationItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			out = append(out, fromQuotationItem(it))
		}
	}
	return out, nil
}

func (r *QuotationDynamoRepository) UpdateLifecycle(ctx context.Context, id string, change entities.LifecycleChange) (entities.Quotation, error) {
	var articulos types.AttributeValue
	if change.Articulos != nil {
		av, err := attributevalue.Marshal(toLineItemItems(change.Articulos))
		if err != nil {
			return entities.Quotation{}, err
		}
		articulos = av
	}
	var comentario types.AttributeValue
	if change.Comentario != nil {
		av, err := attributevalue.Marshal([]comentarioItem{toComentarioItem(*change.Comentario)})
		if err != nil {
			return entities.Quotation{}, err
		}
		comentario = av
	}

	return r.update(ctx, id, change.UpdatedAt, change.MovesState(), func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#updated_at": "updated_at",
		}
		if change.Estado != nil {
			expr += ", #estado = :estado"
			vals[":estado"] = &types.AttributeValueMemberS{Value: string(*change.Estado)}
			names["#estado"] = "estado"
		}
		if change.Workflow != nil {
			expr += ", #workflow = :workflow"
			vals[":workflow"] = &types.AttributeValueMemberS{Value: string(*change.Workflow)}
			names["#workflow"] = "workflow"
		}
		if articulos != nil {
			expr += ", #articulos = :articulos"
			vals[":articulos"] = articulos
			names["#articulos"] = "articulos"
		}
		if comentario != nil {
			expr += ", #comentarios = list_append(if_not_exists(#comentarios, :empty), :comentario)"
			vals[":comentario"] = comentario
			vals[":empty"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
			names["#comentarios"] = "comentarios_privados"
		}
		return expr, vals, names
	})
}

// update applies build's SET expression to an existing item. With
// openOnly, the write is also conditioned on the item not being closed.
func (r *QuotationDynamoRepository) update(
	ctx context.Context,
	id string,
	at time.Time,
	openOnly bool,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Quotation, error) {
	if at.IsZero() {
		at = time.Now()
	}
	updateExpr, values, names := build(formatTime(at))

	condition := "attribute_exists(#id)"
	names = mergeNames(names, map[string]string{"#id": "id"})
	if openOnly {
		condition += " AND NOT (#estado IN (:ganada, :perdida))"
		names = mergeNames(names, map[string]string{"#estado": "estado"})
		values[":ganada"] = &types.AttributeValueMemberS{Value: string(entities.EstadoGanada)}
		values[":perdida"] = &types.AttributeValueMemberS{Value: string(entities.EstadoPerdida)}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:                 aws.String(condition),
		UpdateExpression:                    aws.String(updateExpr),
		ExpressionAttributeValues:           values,
		ExpressionAttributeNames:            names,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			// The old item comes back only when it exists, so it was closed.
			if openOnly && len(cfe.Item) > 0 {
				return entities.Quotation{}, interfaces.ErrQuotationClosed
			}
			return entities.Quotation{}, nil
		}
		return entities.Quotation{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Quotation{}, nil
	}
	var it quotationItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quotation{}, err
	}
	return fromQuotationItem(it), nil
}

func toQuotationItem(q entities.Quotation) quotationItem {
	comentarios := make([]comentarioItem, 0, len(q.ComentariosPrivados))
	for _, c := range q.ComentariosPrivados {
		comentarios = append(comentarios, toComentarioItem(c))
	}
	var fechaDecision *string
	if q.FechaDecision != nil {
		s := formatTime(*q.FechaDecision)
		fechaDecision = &s
	}
	return quotationItem{
		ID:                  q.ID,
		Numero:              q.Numero,
		Cliente:             q.Cliente,
		Tarifa:              q.Tarifa,
		Articulos:           toLineItemItems(q.Articulos),
		Estado:              string(q.Estado),
		Workflow:            string(q.Workflow),
		Vendedor:            vendedorItem{UID: q.Vendedor.UID, Nombre: q.Vendedor.Nombre, Email: q.Vendedor.Email},
		StockDisponible:     q.StockDisponible,
		CompradoAntes:       q.CompradoAntes,
		PrecioAnterior:      decimalPtrToString(q.PrecioAnterior),
		FechaDecision:       fechaDecision,
		PlazoEntrega:        q.PlazoEntrega,
		LugarEntrega:        q.LugarEntrega,
		ComentarioStock:     q.ComentarioStock,
		Licitacion:          q.Licitacion,
		ClienteFinal:        q.ClienteFinal,
		FormaPagoActual:     q.FormaPagoActual,
		FormaPagoSolicitada: q.FormaPagoSolicitada,
		ComentariosCliente:  q.ComentariosCliente,
		PrecioCompetencia:   decimalPtrToString(q.PrecioCompetencia),
		ComentariosPrivados: comentarios,
		FechaCreacion:       formatTime(q.FechaCreacion),
		UpdatedAt:           formatTime(q.UpdatedAt),
	}
}

func fromQuotationItem(it quotationItem) entities.Quotation {
	articulos := make([]entities.LineItem, 0, len(it.Articulos))
	for _, li := range it.Articulos {
		articulos = append(articulos, entities.LineItem{
			Articulo:          li.Articulo,
			URL:               li.URL,
			Unidades:          li.Unidades,
			PrecioCliente:     stringToDecimal(li.PrecioCliente),
			PrecioSolicitado:  stringToDecimalPtr(li.PrecioSolicitado),
			PrecioCotizado:    stringToDecimalPtr(li.PrecioCotizado),
			PrecioCompetencia: stringToDecimalPtr(li.PrecioCompetencia),
		})
	}
	comentarios := make([]entities.ComentarioPrivado, 0, len(it.ComentariosPrivados))
	for _, c := range it.ComentariosPrivados {
		comentarios = append(comentarios, entities.ComentarioPrivado{Autor: c.Autor, Texto: c.Texto, Fecha: parseTime(c.Fecha)})
	}
	var fechaDecision *time.Time
	if it.FechaDecision != nil {
		t := parseTime(*it.FechaDecision)
		fechaDecision = &t
	}
	return entities.Quotation{
		ID:                  it.ID,
		Numero:              it.Numero,
		Cliente:             it.Cliente,
		Tarifa:              it.Tarifa,
		Articulos:           articulos,
		Estado:              entities.Estado(it.Estado),
		Workflow:            entities.Workflow(it.Workflow),
		Vendedor:            entities.Vendedor{UID: it.Vendedor.UID, Nombre: it.Vendedor.Nombre, Email: it.Vendedor.Email},
		StockDisponible:     it.StockDisponible,
		CompradoAntes:       it.CompradoAntes,
		PrecioAnterior:      stringToDecimalPtr(it.PrecioAnterior),
		FechaDecision:       fechaDecision,
		PlazoEntrega:        it.PlazoEntrega,
		LugarEntrega:        it.LugarEntrega,
		ComentarioStock:     it.ComentarioStock,
		Licitacion:          it.Licitacion,
		ClienteFinal:        it.ClienteFinal,
		FormaPagoActual:     it.FormaPagoActual,
		FormaPagoSolicitada: it.FormaPagoSolicitada,
		ComentariosCliente:  it.ComentariosCliente,
		PrecioCompetencia:   stringToDecimalPtr(it.PrecioCompetencia),
		ComentariosPrivados: comentarios,
		FechaCreacion:       parseTime(it.FechaCreacion),
		UpdatedAt:           parseTime(it.UpdatedAt),
	}
}

func toLineItemItems(in []entities.LineItem) []lineItemItem {
	out := make([]lineItemItem, 0, len(in))
	for _, li := range in {
		out = append(out, lineItemItem{
			Articulo:          li.Articulo,
			URL:               li.URL,
			Unidades:          li.Unidades,
			PrecioCliente:     li.PrecioCliente.String(),
			PrecioSolicitado:  decimalPtrToString(li.PrecioSolicitado),
			PrecioCotizado:    decimalPtrToString(li.PrecioCotizado),
			PrecioCompetencia: decimalPtrToString(li.PrecioCompetencia),
		})
	}
	return out
}

func toComentarioItem(c entities.ComentarioPrivado) comentarioItem {
	return comentarioItem{Autor: c.Autor, Texto: c.Texto, Fecha: formatTime(c.Fecha)}
}
