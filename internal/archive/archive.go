// Package archive keeps generated clips in a NATS JetStream object store and
// announces each one on a subject.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const audioKeySuffix = ".wav"

// NatsArchive implements core.AudioArchive using NATS JetStream.
type NatsArchive struct {
	natsConnection *nats.Conn
	bucket         string
	subject        string
	store          nats.ObjectStore
}

// New opens the archive bucket, creating it when the server does not have it
// yet.
func New(
	natsConnection *nats.Conn,
	jetstreamContext nats.JetStreamContext,
	bucketName string,
	subject string,
) (*NatsArchive, error) {
	store, err := jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: "tts-studio generated speech",
		Storage:     nats.FileStorage,
	})

	switch {
	case err == nil:
	case errors.Is(err, jetstream.ErrBucketExists), errors.Is(err, nats.ErrStreamNameAlreadyInUse):
		store, err = jetstreamContext.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive bucket %q: %w", bucketName, err)
		}
	default:
		return nil, fmt.Errorf("failed to create archive bucket %q: %w", bucketName, err)
	}

	return &NatsArchive{
		natsConnection: natsConnection,
		bucket:         bucketName,
		subject:        subject,
		store:          store,
	}, nil
}

// Save uploads a clip under a fresh key and publishes an AudioChunkCreatedEvent.
func (a *NatsArchive) Save(_ context.Context, workflowID string, data []byte) (string, error) {
	audioKey := uuid.NewString() + audioKeySuffix

	_, err := a.store.PutBytes(audioKey, data)
	if err != nil {
		return "", fmt.Errorf("failed to archive clip as %q in %q: %w", audioKey, a.bucket, err)
	}

	event := &events.AudioChunkCreatedEvent{
		Header: events.EventHeader{
			Timestamp:  time.Now(),
			WorkflowID: workflowID,
			EventID:    uuid.NewString(),
			UserID:     "",
			TenantID:   "",
		},
		AudioKey:   audioKey,
		PageNumber: 1,
		TotalPages: 1,
	}

	err = a.publish(event)
	if err != nil {
		return audioKey, err
	}

	return audioKey, nil
}

// Load returns the clip archived under key.
func (a *NatsArchive) Load(_ context.Context, key string) ([]byte, error) {
	data, err := a.store.GetBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load archived clip %q from %q: %w", key, a.bucket, err)
	}

	return data, nil
}

func (a *NatsArchive) publish(event *events.AudioChunkCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audio event: %w", err)
	}

	err = a.natsConnection.Publish(a.subject, payload)
	if err != nil {
		return fmt.Errorf("failed to publish audio event on '%s': %w", a.subject, err)
	}

	return nil
}
