// Package services provides external service integrations and technical concerns like email and tokens
package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmailService(t *testing.T) {
	t.Run("RecordsSends", func(t *testing.T) {
		svc := NewMockEmailService()

		id, err := svc.Send(context.Background(), "a@example.com", "Subject A", "<p>Hello</p>")
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		_, err = svc.Send(context.Background(), "b@example.com", "Subject B", "<p>World</p>")
		require.NoError(t, err)

		sent := svc.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "a@example.com", sent[0].To)
		assert.Equal(t, "Subject A", sent[0].Subject)
		assert.Equal(t, "<p>World</p>", sent[1].HTML)
	})

	t.Run("FailsConfiguredRecipients", func(t *testing.T) {
		svc := NewMockEmailService()
		svc.FailFor["broken@example.com"] = true

		_, err := svc.Send(context.Background(), "broken@example.com", "Subject", "<p>x</p>")
		require.Error(t, err)
		assert.Empty(t, svc.Sent())

		_, err = svc.Send(context.Background(), "ok@example.com", "Subject", "<p>x</p>")
		require.NoError(t, err)
		assert.Len(t, svc.Sent(), 1)
	})

	t.Run("SentReturnsACopy", func(t *testing.T) {
		svc := NewMockEmailService()
		_, err := svc.Send(context.Background(), "a@example.com", "Subject", "<p>x</p>")
		require.NoError(t, err)

		sent := svc.Sent()
		sent[0].To = "mutated@example.com"
		assert.Equal(t, "a@example.com", svc.Sent()[0].To)
	})

	t.Run("ConcurrentSends", func(t *testing.T) {
		svc := NewMockEmailService()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = svc.Send(context.Background(), "a@example.com", "Subject", "<p>x</p>")
			}()
		}
		wg.Wait()

		assert.Len(t, svc.Sent(), 20)
	})
}
