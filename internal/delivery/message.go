package delivery

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/wneessen/go-mail"
)

// DefaultBody is the plain-text part of every report email
const DefaultBody = "Please find attached the automated monthly sales report.\r\n"

// NewReportMessage builds the report email: a plain-text body and content
// attached as application/octet-stream under the base name of path.
func NewReportMessage(from, to, subject, path string, content []byte, date time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(date)
	msg.SetBodyString(mail.TypeTextPlain, DefaultBody)

	if err := msg.AttachReader(filepath.Base(path), bytes.NewReader(content),
		mail.WithFileContentType(mail.TypeAppOctetStream)); err != nil {
		return nil, fmt.Errorf("attach %s: %w", filepath.Base(path), err)
	}
	return msg, nil
}
