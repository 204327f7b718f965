package copier

import (
	"context"
	"fmt"

	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/messaging"
)

var _ messaging.Handler = (*Service)(nil)

// Handle serves palette and helper requests.
func (s *Service) Handle(ctx context.Context, msg messaging.Message) (messaging.Reply, error) {
	switch m := msg.(type) {
	case messaging.GetTemplates:
		templates, err := s.Templates()
		if err != nil {
			return nil, err
		}
		return messaging.TemplatesReply{Templates: templates}, nil

	case messaging.CopyTemplate:
		out, err := s.CopyTemplate(ctx, m.TemplateID)
		if err != nil {
			return nil, err
		}
		return messaging.Ack{Notice: out.Notice}, nil

	case messaging.CopyData:
		ok, err := s.sink.Write(ctx, m.Data)
		if err != nil {
			logger.Error().Err(err).Msg(apperrors.ErrMsgClipboardFailed)
			return messaging.CopyDataReply{Success: false}, nil
		}
		return messaging.CopyDataReply{Success: ok}, nil

	default:
		return nil, fmt.Errorf("unsupported message %T", msg)
	}
}
