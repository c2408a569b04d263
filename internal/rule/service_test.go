package rule_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/black12-ag/reconcile/internal/rule"
)

func TestService_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := rule.NewMockRepository(ctrl)
		repo.EXPECT().CreateRule(gomock.Any(), gomock.Any()).Return(nil)

		svc := rule.NewService(repo)
		got, err := svc.Create(context.Background(), rule.CreateParams{
			Name:     "exact amount",
			Enabled:  true,
			Priority: 10,
			Conditions: []rule.Condition{
				{Field: "amount", Operator: rule.OpEquals, Value: rule.Number(50)},
			},
			Actions: []rule.Action{{Type: rule.ActionAutoMatch}},
		})

		require.NoError(t, err)
		assert.Equal(t, "exact amount", got.Name)
		assert.True(t, got.Enabled)
	})

	t.Run("NameRequired", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := rule.NewService(rule.NewMockRepository(ctrl))
		_, err := svc.Create(context.Background(), rule.CreateParams{})
		assert.Error(t, err)
	})
}

func TestService_SetEnabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rule.NewMockRepository(ctrl)
	existing := &rule.Rule{ID: uuid.New(), Name: "flag large", Enabled: true}

	repo.EXPECT().GetRule(gomock.Any(), existing.ID).Return(existing, nil)
	repo.EXPECT().
		UpdateRule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *rule.Rule) error {
			assert.False(t, r.Enabled)
			return nil
		})

	svc := rule.NewService(repo)
	require.NoError(t, svc.SetEnabled(context.Background(), existing.ID, false))
}
