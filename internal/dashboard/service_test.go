package dashboard

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"proptrackrr/web/internal/models"
)

type mockPropertyAPI struct {
	mock.Mock
}

func (m *mockPropertyAPI) ListProperties(ctx context.Context, token, brokerID string) ([]models.Property, error) {
	args := m.Called(ctx, token, brokerID)
	props, _ := args.Get(0).([]models.Property)
	return props, args.Error(1)
}

func (m *mockPropertyAPI) UpdateProperty(ctx context.Context, token string, id int64, patch models.PropertyPatch) (*models.Property, error) {
	args := m.Called(ctx, token, id, patch)
	p, _ := args.Get(0).(*models.Property)
	return p, args.Error(1)
}

func (m *mockPropertyAPI) DeleteProperty(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

var owner = Owner{SessionID: "s1", Token: "abc", BrokerID: "7"}

func newTestService(api PropertyAPI) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(api, NewBoards(), logger)
}

func TestViewScenario(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil)
	svc := newTestService(api)

	view, err := svc.View(context.Background(), owner, Filter{Search: "3 BHK", Status: "active", City: "Pune"}, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(view.Properties))
	assert.Equal(t, models.PropertyStats{Total: 5, Active: 3, Disabled: 2}, view.Stats)
	assert.Equal(t, []string{"Pune", "Mumbai", "pune"}, view.Cities)

	// filter changes reuse the fetched list
	view, err = svc.View(context.Background(), owner, Filter{City: "Mumbai"}, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(view.Properties))
	api.AssertNumberOfCalls(t, "ListProperties", 1)
}

func TestViewFetchesOnEveryPageLoad(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil).Once()
	svc := newTestService(api)

	_, err := svc.View(context.Background(), owner, Filter{}, true)
	require.NoError(t, err)

	added := append(sampleProperties(), models.Property{ID: 6, Title: "New listing", Status: models.StatusActive})
	api.On("ListProperties", mock.Anything, "abc", "7").Return(added, nil).Once()

	view, err := svc.View(context.Background(), owner, Filter{}, true)
	require.NoError(t, err)
	assert.Contains(t, ids(view.Properties), int64(6))
	api.AssertNumberOfCalls(t, "ListProperties", 2)
}

func TestViewFetchesWhenNothingLoaded(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil)
	svc := newTestService(api)

	view, err := svc.View(context.Background(), owner, Filter{Status: "disabled"}, false)
	require.NoError(t, err)
	assert.Len(t, view.Properties, 2)
	api.AssertNumberOfCalls(t, "ListProperties", 1)
}

func TestViewFetchFailure(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(nil, errors.New("connection refused"))
	svc := newTestService(api)

	view, err := svc.View(context.Background(), owner, Filter{}, false)
	require.Error(t, err)
	assert.Empty(t, view.Properties)
	assert.Equal(t, StatusAll, view.Filter.Status)
}

func TestToggleStatus(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		next     string
		expected string
	}{
		{name: "Active becomes disabled", id: 1, next: models.StatusDisabled, expected: "3 BHK Flat in Baner has been disabled."},
		{name: "Disabled becomes active", id: 2, next: models.StatusActive, expected: "3 BHK Flat in Wakad is now active."},
		{name: "Untitled listing", id: 5, next: models.StatusActive, expected: "Untitled Property is now active."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockPropertyAPI{}
			api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil)
			next := tt.next
			api.On("UpdateProperty", mock.Anything, "abc", tt.id, models.PropertyPatch{Status: &next}).
				Return(&models.Property{ID: tt.id, Status: tt.next}, nil).Once()
			svc := newTestService(api)

			notice, err := svc.ToggleStatus(context.Background(), owner, tt.id)
			require.NoError(t, err)
			assert.Equal(t, Notice{Kind: NoticeSuccess, Message: tt.expected}, notice)
			api.AssertExpectations(t)
			// one fetch to find the listing, one after the update
			api.AssertNumberOfCalls(t, "ListProperties", 2)
		})
	}
}

func TestToggleStatusFailureLeavesBoardUnchanged(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil).Once()
	api.On("UpdateProperty", mock.Anything, "abc", int64(1), mock.Anything).Return(nil, errors.New("boom"))
	svc := newTestService(api)

	_, err := svc.View(context.Background(), owner, Filter{}, false)
	require.NoError(t, err)

	notice, err := svc.ToggleStatus(context.Background(), owner, 1)
	require.Error(t, err)
	assert.Equal(t, Notice{Kind: NoticeError, Message: "Failed to update status."}, notice)

	view, err := svc.View(context.Background(), owner, Filter{}, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 1, 5, 2}, ids(view.Properties))
	api.AssertNumberOfCalls(t, "ListProperties", 1)
}

func TestToggleStatusUnknownProperty(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil)
	svc := newTestService(api)

	notice, err := svc.ToggleStatus(context.Background(), owner, 42)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	assert.Equal(t, NoticeError, notice.Kind)
	api.AssertNotCalled(t, "UpdateProperty", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRefreshesList(t *testing.T) {
	api := &mockPropertyAPI{}
	remaining := sampleProperties()[1:]
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil).Once()
	api.On("ListProperties", mock.Anything, "abc", "7").Return(remaining, nil).Once()
	api.On("DeleteProperty", mock.Anything, "abc", int64(1)).Return(nil).Once()
	svc := newTestService(api)

	notice, err := svc.Delete(context.Background(), owner, 1)
	require.NoError(t, err)
	assert.Equal(t, "3 BHK Flat in Baner has been deleted successfully.", notice.Message)

	view, err := svc.View(context.Background(), owner, Filter{}, false)
	require.NoError(t, err)
	assert.NotContains(t, ids(view.Properties), int64(1))
	assert.Equal(t, 4, view.Stats.Total)
	api.AssertExpectations(t)
}

func TestDeleteFailure(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil).Once()
	api.On("DeleteProperty", mock.Anything, "abc", int64(3)).Return(errors.New("forbidden"))
	svc := newTestService(api)

	notice, err := svc.Delete(context.Background(), owner, 3)
	require.Error(t, err)
	assert.Equal(t, Notice{Kind: NoticeError, Message: "Failed to delete property."}, notice)
}

func TestEditSendsAllFields(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("ListProperties", mock.Anything, "abc", "7").Return(sampleProperties(), nil)
	api.On("UpdateProperty", mock.Anything, "abc", int64(4), mock.MatchedBy(func(p models.PropertyPatch) bool {
		return p.Title != nil && *p.Title == "2 BHK Corner Flat" &&
			p.City != nil && *p.City == "Pune" &&
			p.Price != nil && p.Price.String() == "5500000" &&
			p.BHK != nil && p.BHK.String() == "2" &&
			p.AreaSqft != nil && p.AreaSqft.IsZero() &&
			p.Status == nil
	})).Return(&models.Property{ID: 4}, nil).Once()
	svc := newTestService(api)

	notice, err := svc.Edit(context.Background(), owner, 4, EditInput{
		Title: "2 BHK Corner Flat",
		City:  "Pune",
		Price: "5500000",
		BHK:   "2",
	})
	require.NoError(t, err)
	assert.Equal(t, Notice{Kind: NoticeSuccess, Message: "Property updated successfully!"}, notice)
	api.AssertExpectations(t)
}

func TestEditSucceedsWhenRefreshFails(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("UpdateProperty", mock.Anything, "abc", int64(4), mock.Anything).Return(&models.Property{ID: 4}, nil)
	api.On("ListProperties", mock.Anything, "abc", "7").Return(nil, errors.New("timeout"))
	svc := newTestService(api)

	notice, err := svc.Edit(context.Background(), owner, 4, EditInput{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, NoticeSuccess, notice.Kind)
}

func TestEditFailure(t *testing.T) {
	api := &mockPropertyAPI{}
	api.On("UpdateProperty", mock.Anything, "abc", int64(4), mock.Anything).Return(nil, errors.New("bad request"))
	svc := newTestService(api)

	notice, err := svc.Edit(context.Background(), owner, 4, EditInput{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "Failed to update property.", notice.Message)
	api.AssertNotCalled(t, "ListProperties", mock.Anything, mock.Anything, mock.Anything)
}
