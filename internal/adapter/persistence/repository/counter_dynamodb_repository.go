package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"cotizaciones/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultCountersTableName = "counters"

type counterItem struct {
	ID        string `dynamodbav:"id"`
	Seq       int64  `dynamodbav:"seq"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// CounterDynamoRepository keeps per-period sequence counters in DynamoDB.
//
// Table requirements:
//   - PK: id (string), e.g. "cotizaciones-2025-09"
//
// Each Next call is an optimistic transaction: a strongly consistent read
// followed by a put conditioned on the value that was read.

type CounterDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.ISequenceCounterRepository = (*CounterDynamoRepository)(nil)

func NewCounterDynamoRepository(ddb DynamoDBAPI, tableName string) *CounterDynamoRepository {
	return &CounterDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, DefaultCountersTableName),
	}
}

func (r *CounterDynamoRepository) Next(ctx context.Context, counterID string, now time.Time) (int64, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: counterID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, err
	}

	var current counterItem
	if len(out.Item) > 0 {
		if err := attributevalue.UnmarshalMap(out.Item, &current); err != nil {
			return 0, err
		}
	}

	next := counterItem{ID: counterID, Seq: current.Seq + 1, UpdatedAt: formatTime(now)}
	av, err := attributevalue.MarshalMap(next)
	if err != nil {
		return 0, err
	}

	in := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id) OR #seq = :cur"),
		ExpressionAttributeNames: map[string]string{
			"#id":  "id",
			"#seq": "seq",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cur": &types.AttributeValueMemberN{Value: strconv.FormatInt(current.Seq, 10)},
		},
	}

	if _, err := r.ddb.PutItem(ctx, in); err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return 0, interfaces.ErrCounterConflict
		}
		return 0, err
	}
	return next.Seq, nil
}
