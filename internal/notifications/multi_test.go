package notifications

import (
	"context"
	"errors"
	"testing"

	"ferryman/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMulti_NotifiesAll(t *testing.T) {
	first := mocks.NewMockNotifier(t)
	second := mocks.NewMockNotifier(t)

	first.EXPECT().Notify(mock.Anything, "subject", "body", true).Return(nil).Once()
	second.EXPECT().Notify(mock.Anything, "subject", "body", true).Return(nil).Once()

	err := Multi{first, second}.Notify(context.Background(), "subject", "body", true)

	assert.NoError(t, err)
}

func TestMulti_ContinuesAfterFailure(t *testing.T) {
	first := mocks.NewMockNotifier(t)
	second := mocks.NewMockNotifier(t)

	first.EXPECT().Notify(mock.Anything, "s", "b", false).Return(errors.New("pushover down")).Once()
	second.EXPECT().Notify(mock.Anything, "s", "b", false).Return(nil).Once()

	err := Multi{first, second}.Notify(context.Background(), "s", "b", false)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pushover down")
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, Multi{}.Notify(context.Background(), "s", "b", true))
}

func TestFromConfig(t *testing.T) {
	cfg := createTestConfig(true)
	cfg.Notifications.Email = createEmailConfig(true).Notifications.Email

	m := FromConfig(cfg)
	assert.Len(t, m, 2)

	assert.Empty(t, FromConfig(createTestConfig(false)))
}
