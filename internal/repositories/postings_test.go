package repositories

import (
	"fmt"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func titles(postings []models.Posting) []string {
	return lo.Map(postings, func(p models.Posting, _ int) string { return p.Title })
}

func Test_Search_ExcludesInactivePostings(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")

	f.posting(acme, "Active one")
	f.posting(acme, "Paused one", withStatus(models.PostingPaused))
	f.posting(acme, "Closed one", withStatus(models.PostingClosed))

	repo := NewPostingsRepository(dbCtx.DB)
	postings, total, err := repo.Search(f.ctx, PostingFilter{Query: "one"}, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Active one"}, titles(postings))
}

func Test_Search_OrdersFeaturedFirstThenNewest(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")

	f.posting(acme, "old", createdAgo(3*time.Hour))
	f.posting(acme, "new", createdAgo(time.Hour))
	f.posting(acme, "old featured", featured(), createdAgo(5*time.Hour))

	postings, _, err := NewPostingsRepository(dbCtx.DB).Search(f.ctx, PostingFilter{}, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"old featured", "new", "old"}, titles(postings))
	require.NotNil(t, postings[0].Organization)
	assert.Equal(t, "Acme", postings[0].Organization.Name)
}

func Test_Search_SecondPageReturnsItemsElevenToTwenty(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")

	for i := 1; i <= 25; i++ {
		f.posting(acme, fmt.Sprintf("posting %02d", i), createdAgo(time.Duration(i)*time.Minute))
	}

	postings, total, err := NewPostingsRepository(dbCtx.DB).Search(f.ctx, PostingFilter{}, 10, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, postings, 10)
	assert.Equal(t, "posting 11", postings[0].Title)
	assert.Equal(t, "posting 20", postings[9].Title)
}

func Test_Search_FreeTextMatchesTitleOrganizationOrDescription(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme Rockets")
	globex := f.organization(recruiter, "Globex")

	f.posting(globex, "Backend Engineer")
	f.posting(acme, "Accountant")
	f.posting(globex, "Designer", withDescription("work with the ROCKET team"))
	f.posting(globex, "Nothing here")

	repo := NewPostingsRepository(dbCtx.DB)

	postings, total, err := repo.Search(f.ctx, PostingFilter{Query: "rocket"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []string{"Accountant", "Designer"}, titles(postings))

	postings, _, err = repo.Search(f.ctx, PostingFilter{Query: "BACKEND"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Backend Engineer"}, titles(postings))

	_, total, err = repo.Search(f.ctx, PostingFilter{Query: "100%"}, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func Test_Search_SalaryBandsAreInclusive(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")

	f.posting(acme, "low", withSalary(30000))
	f.posting(acme, "edge", withSalary(50000))
	f.posting(acme, "mid", withSalary(80000))
	f.posting(acme, "high", withSalary(150000))

	repo := NewPostingsRepository(dbCtx.DB)
	search := func(band models.SalaryBand) []string {
		min, max, err := band.Range()
		require.NoError(t, err)
		postings, _, err := repo.Search(f.ctx, PostingFilter{SalaryMin: &min, SalaryMax: max}, 20, 0)
		require.NoError(t, err)
		return titles(postings)
	}

	assert.ElementsMatch(t, []string{"low", "edge"}, search(models.SalaryUpTo50k))
	assert.ElementsMatch(t, []string{"edge", "mid"}, search(models.Salary50kTo100k))
	assert.ElementsMatch(t, []string{"high"}, search(models.SalaryFrom100k))
}

func Test_Search_FiltersByCategoryAndLocation(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")

	f.posting(acme, "tech berlin", withCategory("Technology"))
	f.posting(acme, "design berlin", withCategory("Design"))
	remote := f.posting(acme, "tech remote", withCategory("Technology"))
	remote.Location = "Remote"
	require.NoError(t, NewPostingsRepository(dbCtx.DB).Update(f.ctx, remote))

	postings, _, err := NewPostingsRepository(dbCtx.DB).
		Search(f.ctx, PostingFilter{Category: "Technology", Location: "Berlin"}, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"tech berlin"}, titles(postings))
}

func Test_CountActiveByCategory_IgnoresInactive(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")

	f.posting(acme, "a", withCategory("Technology"))
	f.posting(acme, "b", withCategory("Technology"))
	f.posting(acme, "c", withCategory("Technology"), withStatus(models.PostingClosed))

	count, err := NewPostingsRepository(dbCtx.DB).CountActiveByCategory(f.ctx, "Technology")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func Test_GetFeatured_OnlyActiveFeatured(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")

	f.posting(acme, "plain")
	f.posting(acme, "featured", featured())
	f.posting(acme, "featured paused", featured(), withStatus(models.PostingPaused))

	postings, err := NewPostingsRepository(dbCtx.DB).GetFeatured(f.ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"featured"}, titles(postings))
}

func Test_RemoveWithApplications_CascadesToApplications(t *testing.T) {
	f := newFixture(t)
	recruiter := f.account(models.RoleRecruiter)
	acme := f.organization(recruiter, "Acme")
	posting := f.posting(acme, "Backend Engineer")
	other := f.posting(acme, "Frontend Engineer")

	for i := 0; i < 3; i++ {
		f.application(posting, f.account(models.RoleSeeker))
	}
	f.application(other, f.account(models.RoleSeeker))

	postings := NewPostingsRepository(dbCtx.DB)
	applications := NewApplicationsRepository(dbCtx.DB)

	removed, err := postings.RemoveWithApplications(f.ctx, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	count, err := applications.CountByPosting(f.ctx, posting.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = applications.CountByPosting(f.ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = postings.GetByID(f.ctx, posting.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = postings.RemoveWithApplications(f.ctx, posting.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
