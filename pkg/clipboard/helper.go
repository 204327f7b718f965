package clipboard

import (
	"bufio"
	"fmt"
	"io"

	"urlcopier/pkg/logger"
	"urlcopier/pkg/messaging"

	atotto "github.com/atotto/clipboard"
)

const maxHelperLine = 16 << 20

// Helper is the child side of ProcessSurface.
type Helper struct {
	Write func(text string) error
}

// ServeHelper answers copy-data requests from r on w until r is closed.
func ServeHelper(r io.Reader, w io.Writer) error {
	return Helper{Write: atotto.WriteAll}.Serve(r, w)
}

func (h Helper) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxHelperLine)

	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		reply := h.handle(scanner.Bytes())
		out, err := messaging.EncodeReply(reply)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(out, '\n')); err != nil {
			return fmt.Errorf("failed to reply: %w", err)
		}
	}
	return scanner.Err()
}

func (h Helper) handle(line []byte) messaging.Reply {
	msg, err := messaging.DecodeMessage(line)
	if err != nil {
		return messaging.ErrorReply{Message: err.Error()}
	}

	data, ok := msg.(messaging.CopyData)
	if !ok {
		return messaging.ErrorReply{Message: fmt.Sprintf("clipboard helper cannot handle %q", msg.MessageType())}
	}

	if err := h.Write(data.Data); err != nil {
		logger.Error().Err(err).Msg("Clipboard write failed")
		return messaging.CopyDataReply{Success: false}
	}
	logger.Debug().Int("bytes", len(data.Data)).Msg("Clipboard written")
	return messaging.CopyDataReply{Success: true}
}
