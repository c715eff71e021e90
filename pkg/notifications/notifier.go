package notifications

import (
	"errors"
	"fmt"
	"log"

	"github.com/nicholas-fedor/shoutrrr"
	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/sirupsen/logrus"
)

// errCreateSender indicates an invalid notification URL configuration.
var errCreateSender = errors.New("failed to initialize notification sender")

// router is the subset of the Shoutrrr service router used by the notifier,
// extracted so tests can substitute a recorder.
type router interface {
	Send(message string, params *shoutrrrTypes.Params) []error
}

// Notifier sends run summaries to the configured Shoutrrr URLs. A nil
// Notifier or one created without URLs drops every message.
type Notifier struct {
	router router
	urls   []string
}

// NewNotifier creates a Notifier for the given Shoutrrr URLs.
//
// Shoutrrr's own logging is routed to the logrus trace level, keeping
// service chatter out of normal output.
//
// Parameters:
//   - urls: Shoutrrr service URLs; an empty list yields a no-op notifier.
//
// Returns:
//   - *Notifier: The configured notifier.
//   - error: Non-nil if any URL is invalid.
func NewNotifier(urls []string) (*Notifier, error) {
	if len(urls) == 0 {
		return &Notifier{}, nil
	}

	logger := log.New(logrus.StandardLogger().WriterLevel(logrus.TraceLevel), "Shoutrrr: ", 0)

	sender, err := shoutrrr.NewSender(logger, urls...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCreateSender, err)
	}

	return &Notifier{router: sender, urls: urls}, nil
}

// Send delivers a message with the given title to every configured service.
// Delivery failures are logged per service and never fail the run.
func (n *Notifier) Send(title, message string) {
	if n == nil || n.router == nil {
		return
	}

	params := &shoutrrrTypes.Params{}
	params.SetTitle(title)

	for _, err := range n.router.Send(message, params) {
		if err != nil {
			logrus.WithError(err).Warn("Failed to send notification")
		}
	}
}
