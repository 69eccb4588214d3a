package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactMessage(t *testing.T) {
	t.Run("creates message", func(t *testing.T) {
		msg, err := NewContactMessage(" Asha ", "asha@example.com", "98765", " Hello ")
		require.NoError(t, err)
		assert.Equal(t, "Asha", msg.Name)
		assert.Equal(t, "Hello", msg.Message)
	})

	t.Run("requires name and message", func(t *testing.T) {
		_, err := NewContactMessage("", "asha@example.com", "", "Hello")
		assert.Error(t, err)
		_, err = NewContactMessage("Asha", "asha@example.com", "", "  ")
		assert.Error(t, err)
	})

	t.Run("requires valid email", func(t *testing.T) {
		_, err := NewContactMessage("Asha", "asha", "", "Hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "valid email")
	})
}

func TestNewSubscriber(t *testing.T) {
	sub, err := NewSubscriber(" Asha@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", sub.Email)

	_, err = NewSubscriber("bogus")
	assert.Error(t, err)
}

func TestFindPage(t *testing.T) {
	for _, slug := range PageSlugs() {
		page, ok := FindPage(slug)
		require.True(t, ok, slug)
		assert.Equal(t, slug, page.Slug)
		assert.NotEmpty(t, page.Title)
	}

	_, ok := FindPage("missing")
	assert.False(t, ok)
}
