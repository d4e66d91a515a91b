package services_test

import (
	"net/http"
	"testing"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories/repotest"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedFor(t *testing.T) {
	cases := []struct {
		about       string
		govtJobType string
		kind        models.Kind
		viewAll     string
		isDefault   bool
	}{
		{models.PREF_ADMISSIONS, "", models.ADMISSION, "/admissions", false},
		{models.PREF_INTERNSHIPS, "", models.INTERNSHIP, "/internships", false},
		{models.PREF_SCHOLARSHIPS, "", models.SCHOLARSHIP, "/scholarships", false},
		{models.PREF_RESULTS, "", models.RESULT, "/results", false},
		{models.PREF_ADMIT_CARDS, "", models.ADMIT_CARD, "/admit-cards", false},
		{models.PREF_IT_JOBS, "", models.JOB, "/jobs?job_type=IT", false},
		{models.PREF_NON_IT_JOBS, "", models.JOB, "/jobs?job_type=NON-IT", false},
		{models.PREF_GOVT_JOBS, "central", models.GOVT_JOB, "/govt-jobs?govt_job_type=central", false},
		{models.PREF_GOVT_JOBS, "", models.GOVT_JOB, "/govt-jobs", false},
		{"", "", models.GOVT_JOB, "/govt-jobs", true},
		{"gardening", "central", models.GOVT_JOB, "/govt-jobs", true},
	}
	for _, c := range cases {
		t.Run(c.about+"/"+c.govtJobType, func(t *testing.T) {
			feed := services.FeedFor(c.about, c.govtJobType)
			assert.Equal(t, c.kind, feed.Kind)
			assert.Equal(t, c.viewAll, feed.ViewAll)
			assert.Equal(t, c.isDefault, feed.Default)
			assert.Equal(t, models.MustKind(c.kind).Label, feed.Label)
		})
	}
}

func newPreferences(users *repotest.UserRepository, fake *fakeRepos, publisher *fakePublisher) *services.PreferencesService {
	return services.NewPreferencesService(users, services.NewListingsService(fake.repos(), nil), publisher, nil)
}

func claimsOf(user *models.User) *services.Claims {
	return &services.Claims{ID: user.ID.Hex(), Name: user.Name, Email: user.Email}
}

func TestUpdatePreferences(t *testing.T) {
	user := models.NewModelUser("Asha", "asha@example.com", "hash")
	users := repotest.NewUserRepository(user)
	publisher := &fakePublisher{}
	preferences := newPreferences(users, newFakeRepos(), publisher)

	saved, errRes := preferences.Update(ctx, claimsOf(user), &forms.PreferencesForm{
		NotificationsAbout: models.PREF_IT_JOBS,
		GovtJobType:        "central",
		IsStudying:         true,
	})
	require.Nil(t, errRes)
	assert.Equal(t, models.TECH_IT, saved.TechCategory)
	// The govt sub select only belongs to govt_jobs
	assert.Empty(t, saved.GovtJobType)

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, stored.Preferences)

	require.Len(t, publisher.messages, 1)
	assert.Equal(t, services.SUBJECT_PREFERENCES_UPDATED, publisher.messages[0].subject)
	assert.Equal(t, res.PreferencesUpdated{
		UserID:             user.ID.Hex(),
		NotificationsAbout: models.PREF_IT_JOBS,
	}, publisher.messages[0].data)
}

func TestUpdatePreferencesInvalid(t *testing.T) {
	user := models.NewModelUser("Asha", "asha@example.com", "hash")
	users := repotest.NewUserRepository(user)
	preferences := newPreferences(users, newFakeRepos(), &fakePublisher{})

	invalid := []forms.PreferencesForm{
		{},
		{NotificationsAbout: "gardening"},
		{NotificationsAbout: models.PREF_GOVT_JOBS},
		{NotificationsAbout: models.PREF_GOVT_JOBS, GovtJobType: "galactic"},
	}
	for _, form := range invalid {
		form := form
		_, errRes := preferences.Update(ctx, claimsOf(user), &form)
		require.NotNil(t, errRes, form)
		assert.Equal(t, http.StatusBadRequest, errRes.StatusCode)
	}
	assert.Zero(t, users.Calls)
}

func TestUpdatePreferencesPublishFailure(t *testing.T) {
	user := models.NewModelUser("Asha", "asha@example.com", "hash")
	users := repotest.NewUserRepository(user)
	preferences := newPreferences(users, newFakeRepos(), &fakePublisher{err: errStore})

	saved, errRes := preferences.Update(ctx, claimsOf(user), &forms.PreferencesForm{
		NotificationsAbout: models.PREF_GOVT_JOBS,
		GovtJobType:        "railway",
	})
	require.Nil(t, errRes)
	assert.Equal(t, "railway", saved.GovtJobType)
}

func TestForYouFetchesOneKind(t *testing.T) {
	user := models.NewModelUser("Asha", "asha@example.com", "hash")
	user.Preferences = &models.Preferences{NotificationsAbout: models.PREF_NON_IT_JOBS}
	users := repotest.NewUserRepository(user)
	fake := newFakeRepos(
		models.Job{ListingBase: models.ListingBase{ID: idAt(1), Slug: "it"}, JobTitle: "Go", JobType: models.TECH_IT},
		models.Job{ListingBase: models.ListingBase{ID: idAt(2), Slug: "non-it"}, JobTitle: "Sales", JobType: models.TECH_NON_IT},
		models.GovtJob{ListingBase: models.ListingBase{ID: idAt(3), Slug: "govt"}, Title: "Clerk"},
	)
	preferences := newPreferences(users, fake, &fakePublisher{})

	forYou, errRes := preferences.ForYou(ctx, claimsOf(user))
	require.Nil(t, errRes)
	assert.Equal(t, "/jobs?job_type=NON-IT", forYou.Feed.ViewAll)
	require.Len(t, forYou.Listings, 1)
	assert.Equal(t, "non-it", forYou.Listings[0].Base().Slug)

	for kind, calls := range fake.calls() {
		if kind == models.JOB {
			assert.NotZero(t, calls)
		} else {
			assert.Zero(t, calls, kind)
		}
	}
}

func TestForYouWithoutPreferences(t *testing.T) {
	user := models.NewModelUser("Asha", "asha@example.com", "hash")
	users := repotest.NewUserRepository(user)
	fake := newFakeRepos(models.GovtJob{ListingBase: models.ListingBase{ID: idAt(3), Slug: "govt"}, Title: "Clerk"})
	preferences := newPreferences(users, fake, &fakePublisher{})

	forYou, errRes := preferences.ForYou(ctx, claimsOf(user))
	require.Nil(t, errRes)
	assert.True(t, forYou.Feed.Default)
	assert.Nil(t, forYou.Preferences)
	assert.Len(t, forYou.Listings, 1)
}

func TestForYouUnknownUser(t *testing.T) {
	preferences := newPreferences(repotest.NewUserRepository(), newFakeRepos(), &fakePublisher{})

	_, errRes := preferences.ForYou(ctx, &services.Claims{ID: idAt(9).Hex()})
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusNotFound, errRes.StatusCode)

	_, errRes = preferences.ForYou(ctx, &services.Claims{ID: "nope"})
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusUnauthorized, errRes.StatusCode)
}
