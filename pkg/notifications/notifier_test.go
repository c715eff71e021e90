// Package notifications provides tests for the run summary notifier.
package notifications

import (
	"testing"

	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRouter captures sent messages and params.
type recordingRouter struct {
	messages []string
	params   []*shoutrrrTypes.Params
}

func (r *recordingRouter) Send(message string, params *shoutrrrTypes.Params) []error {
	r.messages = append(r.messages, message)
	r.params = append(r.params, params)

	return nil
}

// TestSend_DeliversTitledMessage verifies that the message and title reach
// the router.
func TestSend_DeliversTitledMessage(t *testing.T) {
	t.Parallel()

	recorder := &recordingRouter{}
	notifier := &Notifier{router: recorder}

	notifier.Send("ECR Janitor", "3 repositories scanned, 30 images deleted")

	require.Len(t, recorder.messages, 1)
	assert.Equal(t, "3 repositories scanned, 30 images deleted", recorder.messages[0])

	title, found := (*recorder.params[0])["title"]
	assert.True(t, found)
	assert.Equal(t, "ECR Janitor", title)
}

// TestSend_NoURLsIsNoop verifies that a notifier built without URLs drops
// messages silently.
func TestSend_NoURLsIsNoop(t *testing.T) {
	t.Parallel()

	notifier, err := NewNotifier(nil)

	require.NoError(t, err)
	assert.NotPanics(t, func() { notifier.Send("ECR Janitor", "summary") })
}

// TestSend_NilNotifierIsSafe verifies nil-receiver safety.
func TestSend_NilNotifierIsSafe(t *testing.T) {
	t.Parallel()

	var notifier *Notifier

	assert.NotPanics(t, func() { notifier.Send("ECR Janitor", "summary") })
}

// TestNewNotifier_InvalidURL verifies that malformed service URLs surface a
// wrapped configuration error.
func TestNewNotifier_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := NewNotifier([]string{"not-a-service-url"})

	assert.ErrorIs(t, err, errCreateSender)
}
