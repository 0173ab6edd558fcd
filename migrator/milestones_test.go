// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-github/v39/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/issue-migrator/migrator/mocks"
	"github.com/mattermost/issue-migrator/model"
)

func milestonePage(page int) *github.MilestoneListOptions {
	return &github.MilestoneListOptions{
		State:       "all",
		ListOptions: github.ListOptions{Page: page, PerPage: milestonesPerPage},
	}
}

func TestResolveMilestones(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	t.Run("Should page through the target and create missing milestones", func(t *testing.T) {
		is := mocks.NewMockIssuesService(ctrl)
		source := newMockSource(ctrl)
		m := newTestMigrator(t, is, source)

		source.EXPECT().ListMilestones(anyCtx()).Return([]*model.Milestone{
			{Name: "1.0"}, {Name: "2.0"}, {Name: ""}, {Name: "3.0"},
		}, nil)

		gomock.InOrder(
			is.EXPECT().ListMilestones(anyCtx(), testOwner, testRepo, milestonePage(1)).Return([]*github.Milestone{
				{Title: github.String("1.0"), Number: github.Int(4)},
			}, response(http.MethodGet, http.StatusOK), nil),
			is.EXPECT().ListMilestones(anyCtx(), testOwner, testRepo, milestonePage(2)).Return([]*github.Milestone{
				{Title: github.String("3.0"), Number: github.Int(9)},
			}, response(http.MethodGet, http.StatusOK), nil),
			is.EXPECT().ListMilestones(anyCtx(), testOwner, testRepo, milestonePage(3)).
				Return([]*github.Milestone{}, response(http.MethodGet, http.StatusOK), nil),
		)
		is.EXPECT().CreateMilestone(anyCtx(), testOwner, testRepo, &github.Milestone{Title: github.String("2.0")}).
			Return(&github.Milestone{Title: github.String("2.0"), Number: github.Int(10)}, response(http.MethodPost, http.StatusCreated), nil).
			Times(1)

		resolved, err := m.resolveMilestones(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"1.0": 4, "2.0": 10, "3.0": 9}, resolved)
		assert.Equal(t, 1, m.summary.Milestones)
	})

	t.Run("Should create a repeated source milestone once", func(t *testing.T) {
		target := newFakeTarget()
		source := &fakeSource{milestones: []*model.Milestone{{Name: "1.0"}, {Name: "1.0"}}}
		m := newTestMigrator(t, target, source)

		resolved, err := m.resolveMilestones(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"1.0": 1}, resolved)
		assert.Len(t, target.milestones, 1)
	})

	t.Run("Should fail when the milestone is not created", func(t *testing.T) {
		is := mocks.NewMockIssuesService(ctrl)
		source := newMockSource(ctrl)
		m := newTestMigrator(t, is, source)

		source.EXPECT().ListMilestones(anyCtx()).Return([]*model.Milestone{{Name: "1.0"}}, nil)
		is.EXPECT().ListMilestones(anyCtx(), testOwner, testRepo, milestonePage(1)).
			Return(nil, response(http.MethodGet, http.StatusOK), nil)
		is.EXPECT().CreateMilestone(anyCtx(), testOwner, testRepo, gomock.Any()).
			Return(nil, response(http.MethodPost, http.StatusUnprocessableEntity), nil)

		_, err := m.resolveMilestones(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `could not create milestone "1.0"`)
	})
}
