package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/db"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/events"
	"github.com/nbakri/tmregistry/internal/registry/lifecycle"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"github.com/nbakri/tmregistry/internal/registry/report"
	"github.com/nbakri/tmregistry/internal/registry/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// mockProducer records the audit events the service emits.
type mockProducer struct {
	mu     sync.Mutex
	events []events.AuditEvent
}

func (p *mockProducer) Produce(event events.AuditEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *mockProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestService(t *testing.T) (*Service, *db.Repository, *mockProducer) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Migrate(gdb), "failed to migrate test database")

	repo := db.NewRepositoryWithDB(gdb)
	logger := zaptest.NewLogger(t)
	producer := &mockProducer{}
	svc := NewService(repo, sequencer.New(repo, logger), report.NewGenerator(repo), producer, logger)
	return svc, repo, producer
}

var staff = Actor{Username: "clerk", IPAddress: "10.0.0.1"}

func testPublication(number, decreeNumber, year int) *models.Publication {
	return &models.Publication{
		Number:       number,
		DecreeNumber: decreeNumber,
		Year:         year,
		Applicant:    "applicant",
		Owner:        "owner",
		CountryID:    1,
		ArBrand:      "علامة",
		EnBrand:      "brand",
		CategoryID:   1,
		ENumber:      1,
	}
}

func testObjection(pubID uint) *models.Objection {
	return &models.Objection{
		PubID:          pubID,
		Name:           "معترض",
		Job:            "تاجر",
		NationalityID:  1,
		Address:        "طرابلس",
		Phone:          "0911111111",
		ComName:        "شركة",
		ComJobID:       1,
		ComAddress:     "عنوان",
		ComOgAddress:   "عنوان",
		ComMailAddress: "عنوان",
	}
}

func TestCreatePublicationCreatesPlaceholderDecree(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 77, 2024), staff)
	require.NoError(t, err)
	require.NotNil(t, pub.DecreeID, "the publication must link a decree")

	decree, err := repo.GetDecree(ctx, *pub.DecreeID)
	require.NoError(t, err)
	assert.True(t, decree.IsPlaceholder, "a missing decree is stubbed as a placeholder")
	assert.Equal(t, 77, decree.Number)
	assert.Equal(t, 2024, decree.Year())
	assert.Equal(t, "owner", decree.Company, "the stub is seeded from the publication")
}

func TestCreatePublicationLinksExistingDecree(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	decree := &models.Decree{Number: 42, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.CreateDecree(ctx, decree))

	pub, err := svc.CreatePublication(ctx, testPublication(1, 42, 2024), staff)
	require.NoError(t, err)
	require.NotNil(t, pub.DecreeID)
	assert.Equal(t, decree.ID, *pub.DecreeID, "an existing decree is linked, not duplicated")

	decrees, err := repo.ListDecrees(ctx, db.DecreeFilter{Year: 2024, IncludePlaceholder: true})
	require.NoError(t, err)
	assert.Len(t, decrees, 1)
}

func TestCreatePublicationSharesPlaceholder(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreatePublication(ctx, testPublication(1, 77, 2024), staff)
	require.NoError(t, err)
	second, err := svc.CreatePublication(ctx, testPublication(2, 77, 2024), staff)
	require.NoError(t, err)
	assert.Equal(t, *first.DecreeID, *second.DecreeID, "publications of one decree share its placeholder")

	decrees, err := repo.ListDecrees(ctx, db.DecreeFilter{Year: 2024, IncludePlaceholder: true})
	require.NoError(t, err)
	assert.Len(t, decrees, 1)
}

func TestCreatePublicationDuplicateNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePublication(ctx, testPublication(5, 1, 2024), staff)
	require.NoError(t, err)

	_, err = svc.CreatePublication(ctx, testPublication(5, 2, 2024), staff)
	assert.ErrorIs(t, err, e.ErrDuplicateNumber, "a publication number is unique within its year")

	// The same number in a different year passes.
	old := testPublication(5, 3, 2023)
	old.CreatedAt = time.Date(2023, time.July, 1, 15, 0, 0, 0, time.UTC)
	_, err = svc.CreatePublication(ctx, old, staff)
	assert.NoError(t, err)
}

func TestCreatePublicationDefaultsToThreePM(t *testing.T) {
	svc, _, _ := newTestService(t)

	pub, err := svc.CreatePublication(context.Background(), testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	assert.Equal(t, 15, pub.CreatedAt.Hour(), "unset publication dates default to 15:00 today")
	assert.Equal(t, 0, pub.CreatedAt.Minute())
}

func TestUpdatePublicationNumberCollision(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	second, err := svc.CreatePublication(ctx, testPublication(2, 2, 2024), staff)
	require.NoError(t, err)

	newNumber := 1
	_, err = svc.UpdatePublication(ctx, &models.PublicationUpdate{ID: second.ID, Number: &newNumber}, staff)
	assert.ErrorIs(t, err, e.ErrDuplicateNumber, "uniqueness holds on update too")
}

func TestCreateObjectionAssignsNumberAndCode(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)

	first, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{IPAddress: "10.0.0.9"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number, "the first objection of the year gets number 1")
	assert.Equal(t, time.Now().Year(), first.Year)
	assert.Len(t, first.UniqueCode, sequencer.CodeLength)
	assert.Equal(t, models.ObjectionPending, first.Status)

	second, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number, "numbers are contiguous")
	assert.NotEqual(t, first.UniqueCode, second.UniqueCode)

	objected, err := repo.GetPublication(ctx, pub.ID)
	require.NoError(t, err)
	assert.True(t, objected.IsObjected, "filing marks the publication as objected")
	require.NotNil(t, objected.ObjectionDate)
}

func TestCreateObjectionSequencesByFilingYear(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lastYear := time.Now().Year() - 1

	old := testPublication(1, 1, lastYear)
	old.CreatedAt = time.Date(lastYear, time.June, 1, 15, 0, 0, 0, time.UTC)
	pub, err := svc.CreatePublication(ctx, old, staff)
	require.NoError(t, err)

	filed := testObjection(pub.ID)
	filed.CreatedAt = time.Date(lastYear, time.August, 10, 9, 0, 0, 0, time.UTC)
	prior, err := svc.CreateObjection(ctx, filed, Actor{})
	require.NoError(t, err)
	require.Equal(t, lastYear, prior.Year)
	require.Equal(t, 1, prior.Number)

	// An objection filed today against the old publication joins this
	// year's sequence, not the publication's.
	current, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Year(), current.Year, "the sequence follows the filing year")
	assert.Equal(t, 1, current.Number, "each filing year starts its own sequence")
}

func TestCreateObjectionWithReceiptStartsUnconfirmed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)

	obj := testObjection(pub.ID)
	obj.IsPaid = true
	obj.ReceiptFile = "objection/receipt.pdf"
	created, err := svc.CreateObjection(ctx, obj, Actor{})
	require.NoError(t, err)
	assert.Equal(t, models.ObjectionUnconfirm, created.Status,
		"a submission carrying a receipt goes straight to fee review")
}

func TestConfirmFee(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	obj, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)

	updated, err := svc.TransitionObjection(ctx, obj.ID, lifecycle.ConfirmFee, staff)
	require.NoError(t, err)
	assert.Equal(t, models.ObjectionPaid, updated.Status)
	assert.True(t, updated.IsPaid)

	contested, err := repo.GetPublication(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationConflict, contested.Status,
		"a confirmed fee puts the publication in conflict")
}

func TestConfirmFeeGuard(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	obj, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)

	_, err = svc.TransitionObjection(ctx, obj.ID, lifecycle.ConfirmFee, staff)
	require.NoError(t, err)
	_, err = svc.TransitionObjection(ctx, obj.ID, lifecycle.ConfirmFee, staff)
	assert.ErrorIs(t, err, e.ErrInvalidTransition, "a paid objection cannot confirm its fee again")
}

func TestDeclineFeeRevertsLonePublication(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	obj, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)

	updated, err := svc.TransitionObjection(ctx, obj.ID, lifecycle.DeclineFee, staff)
	require.NoError(t, err)
	assert.Equal(t, models.ObjectionReject, updated.Status)
	assert.False(t, updated.IsPaid)

	reverted, err := repo.GetPublication(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationInitial, reverted.Status,
		"declining the only objection returns the publication to initial")
}

func TestDeclineFeeKeepsConflictWithSibling(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	first, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)
	second, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)

	_, err = svc.TransitionObjection(ctx, first.ID, lifecycle.ConfirmFee, staff)
	require.NoError(t, err)
	_, err = svc.TransitionObjection(ctx, second.ID, lifecycle.DeclineFee, staff)
	require.NoError(t, err)

	contested, err := repo.GetPublication(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationConflict, contested.Status,
		"a live sibling objection keeps the publication contested")
}

func TestConfirmOutcome(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	obj, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)

	_, err = svc.TransitionObjection(ctx, obj.ID, lifecycle.ConfirmFee, staff)
	require.NoError(t, err)
	updated, err := svc.TransitionObjection(ctx, obj.ID, lifecycle.ConfirmOutcome, staff)
	require.NoError(t, err)
	assert.Equal(t, models.ObjectionAccept, updated.Status)

	upheld, err := repo.GetPublication(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.UpheldStatus, upheld.Status,
		"an upheld objection closes the publication")
}

func TestDeclineOutcomeCountsRejectedSiblings(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	first, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)
	second, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)

	// First objection dies at the fee stage; second is paid and then declined
	// on the merits. The rejected sibling still blocks the revert on the
	// outcome path.
	_, err = svc.TransitionObjection(ctx, first.ID, lifecycle.DeclineFee, staff)
	require.NoError(t, err)
	_, err = svc.TransitionObjection(ctx, second.ID, lifecycle.ConfirmFee, staff)
	require.NoError(t, err)
	_, err = svc.TransitionObjection(ctx, second.ID, lifecycle.DeclineOutcome, staff)
	require.NoError(t, err)

	contested, err := repo.GetPublication(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationConflict, contested.Status)
}

func TestUpdateObjectionReceiptMovesToUnconfirmed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	obj, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)
	require.Equal(t, models.ObjectionPending, obj.Status)

	paid := true
	receipt := "objection/receipt.pdf"
	updated, err := svc.UpdateObjection(ctx, &models.ObjectionUpdate{
		ID: obj.ID, IsPaid: &paid, ReceiptFile: &receipt,
	}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, models.ObjectionUnconfirm, updated.Status,
		"attaching a receipt queues the objection for fee review")
}

func TestTrackObjection(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)
	obj, err := svc.CreateObjection(ctx, testObjection(pub.ID), Actor{})
	require.NoError(t, err)

	found, err := svc.TrackObjection(ctx, obj.UniqueCode, "0911111111")
	require.NoError(t, err)
	assert.Equal(t, obj.ID, found.ID)

	_, err = svc.TrackObjection(ctx, obj.UniqueCode, "0999999999")
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = svc.TrackObjection(ctx, "123", "0911111111")
	assert.ErrorIs(t, err, e.ErrInvalidInput, "a malformed code fails before touching the store")
}

func TestFinalizePublication(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)

	finalized, err := svc.FinalizePublication(ctx, pub.ID, staff)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationFinal, finalized.Status)

	decree, err := repo.GetDecree(ctx, *pub.DecreeID)
	require.NoError(t, err)
	assert.True(t, decree.IsPublished, "finalizing marks the decree as published")

	_, err = svc.FinalizePublication(ctx, pub.ID, staff)
	assert.ErrorIs(t, err, e.ErrInvalidTransition, "finalize only fires from the initial state")
}

func TestSweepStalePublications(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	stale := testPublication(1, 1, 2024)
	stale.CreatedAt = time.Now().AddDate(0, 0, -40)
	_, err := svc.CreatePublication(ctx, stale, staff)
	require.NoError(t, err)

	fresh := testPublication(2, 2, 2024)
	_, err = svc.CreatePublication(ctx, fresh, staff)
	require.NoError(t, err)

	opposed := testPublication(3, 3, 2024)
	opposed.CreatedAt = time.Now().AddDate(0, 0, -40)
	createdOpposed, err := svc.CreatePublication(ctx, opposed, staff)
	require.NoError(t, err)
	_, err = svc.CreateObjection(ctx, testObjection(createdOpposed.ID), Actor{})
	require.NoError(t, err)

	count, err := svc.SweepStalePublications(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "only old, unopposed publications are swept")

	finalized, err := repo.GetPublication(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationFinal, finalized.Status)

	decree, err := repo.GetDecree(ctx, *finalized.DecreeID)
	require.NoError(t, err)
	assert.True(t, decree.IsPublished, "the sweep publishes the linked decree too")

	untouched, err := repo.GetPublication(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationInitial, untouched.Status)

	// A second pass over the same data moves nothing.
	count, err = svc.SweepStalePublications(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "the sweep is idempotent")
}

func TestMutationsAreAudited(t *testing.T) {
	svc, repo, producer := newTestService(t)
	ctx := context.Background()

	decree := &models.Decree{Number: 1, Date: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)}
	_, err := svc.CreateDecree(ctx, decree, staff)
	require.NoError(t, err)
	_, err = svc.CreatePublication(ctx, testPublication(1, 1, 2024), staff)
	require.NoError(t, err)

	entries, err := repo.ListActivity(ctx, db.ActivityFilter{Actor: "clerk"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "every mutation writes an activity row")
	assert.Equal(t, models.ActivityCreate, entries[0].Action)
	assert.Equal(t, "clerk", entries[0].Actor)

	assert.Equal(t, len(entries), producer.count(), "every activity row mirrors onto the event stream")
}

func TestYearlyReportOverRealData(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	for _, n := range []int{1, 2, 5} {
		require.NoError(t, repo.CreateDecree(ctx, &models.Decree{
			Number: n,
			Date:   time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC),
		}))
	}

	rep, err := svc.YearlyReport(ctx, report.KindDecree, 2024)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, []int{3, 4}, rep.Missing)
	assert.Equal(t, "3 الى 4", rep.MissingDisplay)

	_, err = svc.YearlyReport(ctx, report.KindDecree, 0)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}
