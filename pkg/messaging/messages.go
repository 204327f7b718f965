// Package messaging defines the messages exchanged between the daemon, the
// palette and the clipboard helper, and the JSON envelope they travel in.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"urlcopier/pkg/models"
)

// Type is the discriminator carried in every envelope.
type Type string

const (
	TypeGetTemplates  Type = "get-templates"
	TypeCopyTemplate  Type = "copy-template"
	TypeCopyData      Type = "copy-data"
	TypeTemplates     Type = "templates"
	TypeCopyDataReply Type = "copy-data-result"
	TypeAck           Type = "ack"
	TypeError         Type = "error"
)

// Message is a request. The concrete types below are the only variants.
type Message interface {
	MessageType() Type
}

// GetTemplates asks for the current template list.
type GetTemplates struct{}

// CopyTemplate asks to copy the active tab with the given template.
type CopyTemplate struct {
	TemplateID string
}

// CopyData asks a clipboard surface to write Data.
type CopyData struct {
	Data string
}

func (GetTemplates) MessageType() Type { return TypeGetTemplates }
func (CopyTemplate) MessageType() Type { return TypeCopyTemplate }
func (CopyData) MessageType() Type     { return TypeCopyData }

// Reply answers a Message.
type Reply interface {
	ReplyType() Type
}

type TemplatesReply struct {
	Templates []models.Template
}

type CopyDataReply struct {
	Success bool
}

// Ack acknowledges a request that produces no data. Notice carries the
// user-facing message raised while handling it, if any.
type Ack struct {
	Notice string
}

// ErrorReply carries a handler failure across the wire. Code is the
// process exit code the failure maps to.
type ErrorReply struct {
	Message string
	Code    int
}

func (TemplatesReply) ReplyType() Type { return TypeTemplates }
func (CopyDataReply) ReplyType() Type  { return TypeCopyDataReply }
func (Ack) ReplyType() Type            { return TypeAck }
func (ErrorReply) ReplyType() Type     { return TypeError }

func (e ErrorReply) Error() string { return e.Message }

// Handler processes one message.
type Handler interface {
	Handle(ctx context.Context, msg Message) (Reply, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg Message) (Reply, error)

func (f HandlerFunc) Handle(ctx context.Context, msg Message) (Reply, error) {
	return f(ctx, msg)
}

type envelope struct {
	Type       Type              `json:"type"`
	TemplateID string            `json:"templateId,omitempty"`
	Data       *string           `json:"data,omitempty"`
	Templates  []models.Template `json:"templates,omitempty"`
	Success    *bool             `json:"success,omitempty"`
	Notice     string            `json:"notice,omitempty"`
	Error      string            `json:"error,omitempty"`
	Code       int               `json:"code,omitempty"`
}

// EncodeMessage renders msg as a JSON envelope.
func EncodeMessage(msg Message) ([]byte, error) {
	env := envelope{}
	switch m := msg.(type) {
	case GetTemplates:
		env.Type = TypeGetTemplates
	case CopyTemplate:
		env.Type = TypeCopyTemplate
		env.TemplateID = m.TemplateID
	case CopyData:
		env.Type = TypeCopyData
		env.Data = &m.Data
	default:
		return nil, fmt.Errorf("unsupported message %T", msg)
	}
	return json.Marshal(env)
}

// DecodeMessage parses a JSON envelope into a Message.
func DecodeMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	switch env.Type {
	case TypeGetTemplates:
		return GetTemplates{}, nil
	case TypeCopyTemplate:
		if env.TemplateID == "" {
			return nil, fmt.Errorf("%s message requires templateId", env.Type)
		}
		return CopyTemplate{TemplateID: env.TemplateID}, nil
	case TypeCopyData:
		if env.Data == nil {
			return nil, fmt.Errorf("%s message requires data", env.Type)
		}
		return CopyData{Data: *env.Data}, nil
	case "":
		return nil, fmt.Errorf("message has no type")
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

// EncodeReply renders reply as a JSON envelope.
func EncodeReply(reply Reply) ([]byte, error) {
	env := envelope{}
	switch r := reply.(type) {
	case TemplatesReply:
		env.Type = TypeTemplates
		env.Templates = r.Templates
	case CopyDataReply:
		env.Type = TypeCopyDataReply
		env.Success = &r.Success
	case Ack:
		env.Type = TypeAck
		env.Notice = r.Notice
	case ErrorReply:
		env.Type = TypeError
		env.Error = r.Message
		env.Code = r.Code
	default:
		return nil, fmt.Errorf("unsupported reply %T", reply)
	}
	return json.Marshal(env)
}

// DecodeReply parses a JSON envelope into a Reply.
func DecodeReply(data []byte) (Reply, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid reply: %w", err)
	}

	switch env.Type {
	case TypeTemplates:
		return TemplatesReply{Templates: env.Templates}, nil
	case TypeCopyDataReply:
		return CopyDataReply{Success: env.Success != nil && *env.Success}, nil
	case TypeAck:
		return Ack{Notice: env.Notice}, nil
	case TypeError:
		return ErrorReply{Message: env.Error, Code: env.Code}, nil
	default:
		return nil, fmt.Errorf("unknown reply type %q", env.Type)
	}
}
