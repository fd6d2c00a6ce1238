package entities

import "github.com/shopspring/decimal"

// TransitionKind names the lifecycle event that produced a notification.
type TransitionKind string

const (
	TransitionSolicitud         TransitionKind = "solicitud"
	TransitionRevision          TransitionKind = "revision"
	TransitionCotizada          TransitionKind = "cotizada"
	TransitionReabierta         TransitionKind = "reabierta"
	TransitionGanada            TransitionKind = "ganada"
	TransitionPerdida           TransitionKind = "perdida"
	TransitionComentarioPrivado TransitionKind = "comentario_privado"
)

// NotificationKind is the semantic kind of an outbound message.
type NotificationKind string

const (
	NotificationSolicitud         NotificationKind = "solicitud"
	NotificationCotizada          NotificationKind = "cotizada"
	NotificationGanada            NotificationKind = "ganada"
	NotificationPerdida           NotificationKind = "perdida"
	NotificationComentarioPrivado NotificationKind = "comentario_privado"
	NotificationActualizacion     NotificationKind = "actualizacion"
)

// Notification is the message handed to a Notifier.
type Notification struct {
	To      []string            `json:"to"`
	Subject string              `json:"subject"`
	Kind    NotificationKind    `json:"kind"`
	Payload NotificationPayload `json:"payload"`
}

// NotificationPayload carries the quotation summary a transport may render.
type NotificationPayload struct {
	ID              string          `json:"id"`
	Numero          string          `json:"numero"`
	Cliente         string          `json:"cliente"`
	Tarifa          string          `json:"tarifa"`
	Vendedor        string          `json:"vendedor"`
	Estado          Estado          `json:"estado"`
	Workflow        Workflow        `json:"workflow,omitempty"`
	Articulos       []LineItem      `json:"articulos"`
	StockDisponible bool            `json:"stockDisponible"`
	Licitacion      bool            `json:"licitacion"`
	ClienteFinal    string          `json:"clienteFinal"`
	TotalCotizado   decimal.Decimal `json:"totalCotizado"`
	Comentario      string          `json:"comentario,omitempty"`
}
