package events

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingClient struct {
	subjects []string
	err      error
}

func (r *recordingClient) Publish(subject string, _ interface{}) error {
	r.subjects = append(r.subjects, subject)
	return r.err
}

func (r *recordingClient) Close() {}

func TestPublishNilClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.NotPanics(t, func() {
		Publish(nil, logger, SubjectSnapshotLoaded, SnapshotLoadedEvent{})
	})
}

func TestPublishSwallowsErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := &recordingClient{err: errors.New("nats: connection closed")}
	Publish(c, logger, SubjectExportCreated, ExportCreatedEvent{Rows: 3})
	assert.Equal(t, []string{SubjectExportCreated}, c.subjects)
}
