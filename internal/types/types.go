package types

// Sender identifies the Favro user that triggered a webhook.
type Sender struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Comment is a comment on a Favro card.
type Comment struct {
	CommentID      string `json:"commentId"`
	CardCommonID   string `json:"cardCommonId"`
	OrganizationID string `json:"organizationId"`
	UserID         string `json:"userId"`
	Comment        string `json:"comment"`
	Created        string `json:"created"`
	LastUpdated    string `json:"lastUpdated,omitempty"`
}

// Card is a Favro work item. Only the fields the relay displays are
// decoded; the rest of the payload is ignored.
type Card struct {
	CardID         string `json:"cardId"`
	CardCommonID   string `json:"cardCommonId"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	WidgetCommonID string `json:"widgetCommonId"`
	ColumnID       string `json:"columnId"`
	SequentialID   int    `json:"sequentialId"`
}

// Column is a column on a Favro board.
type Column struct {
	ColumnID string `json:"columnId"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
}

// Widget is a Favro board.
type Widget struct {
	WidgetCommonID string `json:"widgetCommonId"`
	Name           string `json:"name"`
	Type           string `json:"type,omitempty"`
}

// EventKind is the resolved variant of an inbound webhook. Favro reuses one
// action value for both card and comment events; the kind disambiguates them
// once at ingress so handlers never re-test field presence.
type EventKind string

const (
	KindPing           EventKind = "ping"
	KindCardCreated    EventKind = "card_created"
	KindCommentCreated EventKind = "comment_created"
	KindCardUpdated    EventKind = "card_updated"
	KindCommentUpdated EventKind = "comment_updated"
	KindCardRemoved    EventKind = "card_removed"
	KindCommentRemoved EventKind = "comment_removed"
	KindCardMoved      EventKind = "card_moved"
	KindCardCommitted  EventKind = "card_committed"
	KindUnknown        EventKind = "unknown"
)

// Event is an inbound Favro webhook payload. Optional entities are pointers;
// a nil Comment is what distinguishes a card event from a comment event for
// the created/updated/removed actions.
type Event struct {
	PayloadID    string   `json:"payloadId"`
	Action       string   `json:"action"`
	Sender       Sender   `json:"sender"`
	Card         *Card    `json:"card,omitempty"`
	Widget       *Widget  `json:"widget,omitempty"`
	SourceWidget *Widget  `json:"sourceWidget,omitempty"`
	Column       *Column  `json:"column,omitempty"`
	SourceColumn *Column  `json:"sourceColumn,omitempty"`
	Comment      *Comment `json:"comment,omitempty"`

	// Kind is computed from Action and Comment presence when the event is
	// decoded. It is not part of the wire format.
	Kind EventKind `json:"-"`
}

// ResolveKind classifies the event from its action discriminator and the
// presence of a comment entity.
func (e *Event) ResolveKind() EventKind {
	switch e.Action {
	case "ping":
		return KindPing
	case "created":
		if e.Comment != nil {
			return KindCommentCreated
		}
		return KindCardCreated
	case "updated":
		if e.Comment != nil {
			return KindCommentUpdated
		}
		return KindCardUpdated
	case "removed":
		if e.Comment != nil {
			return KindCommentRemoved
		}
		return KindCardRemoved
	case "moved":
		return KindCardMoved
	case "committed":
		return KindCardCommitted
	default:
		return KindUnknown
	}
}

// CardName returns the card name or an empty string when the payload carried
// no card. Partial payloads render as blanks rather than failing.
func (e *Event) CardName() string {
	if e.Card == nil {
		return ""
	}
	return e.Card.Name
}

// ColumnName is a nil-safe accessor for display purposes.
func ColumnName(c *Column) string {
	if c == nil {
		return ""
	}
	return c.Name
}

// WidgetName is a nil-safe accessor for display purposes.
func WidgetName(w *Widget) string {
	if w == nil {
		return ""
	}
	return w.Name
}
