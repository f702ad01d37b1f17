package reports

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"participium/internal/assignment"
	"participium/internal/auth"
	"participium/internal/database/models"
	"participium/internal/database/sqlite"
	"participium/internal/domain"
	"participium/internal/photos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	citizenID  = "u-citizen"
	otherID    = "u-citizen-2"
	proID      = "u-pro"
	electric1  = "u-elec-1"
	electric2  = "u-elec-2"
	externalID = "u-external"
)

var turin = domain.Location{Latitude: 45.0703, Longitude: 7.6869}

type memoryPhotoStore struct {
	mu    sync.Mutex
	saved int
}

func (m *memoryPhotoStore) Save(_ context.Context, img photos.Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved++
	return fmt.Sprintf("/uploads/reports/%d%s", m.saved, img.Ext()), nil
}

type fixture struct {
	svc    *Service
	store  *sqlite.Store
	photos *memoryPhotoStore

	mu    sync.Mutex
	clock time.Time
}

func pngPhoto(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func setupService(t *testing.T, staff ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.Open(ctx, t.TempDir()+"/reports.db")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	users := []models.User{
		{ID: citizenID, Username: "mario", Role: auth.RoleCitizen},
		{ID: otherID, Username: "luigi", Role: auth.RoleCitizen},
		{ID: proID, Username: "pro", Role: auth.RolePublicRelationsOfficer},
		{ID: externalID, Username: "ext", Role: auth.RoleExternalMaintainer},
	}
	for _, id := range staff {
		users = append(users, models.User{ID: id, Username: id, Role: auth.RoleElectricalStaff, Department: "Public Lighting Department"})
	}
	for i := range users {
		require.NoError(t, store.CreateUser(ctx, &users[i]))
	}

	selector := assignment.NewLeastLoaded(store, store)
	ps := &memoryPhotoStore{}
	f := &fixture{store: store, photos: ps, clock: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	f.svc = NewService(store, store, selector, ps)
	f.svc.now = func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func (f *fixture) draft(t *testing.T) domain.Draft {
	loc := turin
	return domain.Draft{
		Title:       "Broken street lamp",
		Description: "The lamp in front of number 12 is off",
		Category:    domain.CategoryPublicLighting,
		Location:    &loc,
		Photos:      [][]byte{pngPhoto(t)},
	}
}

func (f *fixture) create(t *testing.T) *domain.Report {
	t.Helper()
	r, err := f.svc.CreateReport(context.Background(), citizenID, f.draft(t), domain.BotPhotoLimits)
	require.NoError(t, err)
	return r
}

func TestCreateReport(t *testing.T) {
	ctx := context.Background()

	t.Run("valid draft is pending", func(t *testing.T) {
		f := setupService(t, electric1)
		d := f.draft(t)
		d.Title = "  Broken street lamp  "
		d.Photos = [][]byte{pngPhoto(t), pngPhoto(t)}

		r, err := f.svc.CreateReport(ctx, citizenID, d, domain.BotPhotoLimits)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPendingApproval, r.Status)
		assert.Equal(t, "Broken street lamp", r.Title)
		assert.Nil(t, r.AssigneeID)
		assert.Nil(t, r.RejectionReason)
		assert.Len(t, r.Photos, 2)
		assert.Equal(t, 2, f.photos.saved)

		stored, err := f.store.GetReportByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.Photos, stored.Photos)
	})

	t.Run("location outside Turin", func(t *testing.T) {
		f := setupService(t)
		d := f.draft(t)
		d.Location = &domain.Location{Latitude: 41.9028, Longitude: 12.4964}

		_, err := f.svc.CreateReport(ctx, citizenID, d, domain.BotPhotoLimits)

		assert.ErrorIs(t, err, domain.ErrBadRequest)
		assert.Equal(t, domain.ReasonOutOfBounds, domain.ReasonOf(err))
		assert.Zero(t, f.photos.saved)
	})

	t.Run("photo window on bot path", func(t *testing.T) {
		f := setupService(t)
		p := pngPhoto(t)
		for n, ok := range map[int]bool{0: false, 1: true, 2: true, 3: true, 4: false} {
			d := f.draft(t)
			d.Photos = make([][]byte, n)
			for i := range d.Photos {
				d.Photos[i] = p
			}

			_, err := f.svc.CreateReport(ctx, citizenID, d, domain.BotPhotoLimits)

			if ok {
				assert.NoError(t, err, "photos=%d", n)
			} else {
				assert.Equal(t, domain.ReasonPhotoCount, domain.ReasonOf(err), "photos=%d", n)
			}
		}
	})

	t.Run("web path accepts no photos", func(t *testing.T) {
		f := setupService(t)
		d := f.draft(t)
		d.Photos = nil

		r, err := f.svc.CreateReport(ctx, citizenID, d, domain.WebPhotoLimits)

		require.NoError(t, err)
		assert.Empty(t, r.Photos)
	})

	t.Run("invalid fields", func(t *testing.T) {
		f := setupService(t)
		tests := []struct {
			name   string
			mutate func(*domain.Draft)
			reason domain.Reason
		}{
			{"missing location", func(d *domain.Draft) { d.Location = nil }, domain.ReasonInvalidLocation},
			{"bad coordinates", func(d *domain.Draft) { d.Location = &domain.Location{Latitude: 91, Longitude: 7} }, domain.ReasonInvalidCoordinates},
			{"unknown category", func(d *domain.Draft) { d.Category = "Potholes" }, domain.ReasonInvalidCategory},
			{"blank title", func(d *domain.Draft) { d.Title = "   " }, domain.ReasonInvalidText},
			{"blank description", func(d *domain.Draft) { d.Description = "" }, domain.ReasonInvalidText},
			{"gif photo", func(d *domain.Draft) { d.Photos = [][]byte{[]byte("GIF89a....")} }, domain.ReasonUnsupportedFormat},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := f.draft(t)
				tt.mutate(&d)

				_, err := f.svc.CreateReport(ctx, citizenID, d, domain.BotPhotoLimits)

				assert.Equal(t, tt.reason, domain.ReasonOf(err))
			})
		}
	})

	t.Run("only citizens create", func(t *testing.T) {
		f := setupService(t)

		_, err := f.svc.CreateReport(ctx, proID, f.draft(t), domain.BotPhotoLimits)
		assert.ErrorIs(t, err, domain.ErrInsufficientRights)

		_, err = f.svc.CreateReport(ctx, "ghost", f.draft(t), domain.BotPhotoLimits)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestApproveReport(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns routed staff member", func(t *testing.T) {
		f := setupService(t, electric1, electric2)
		r := f.create(t)

		res, err := f.svc.ApproveReport(ctx, r.ID, proID, nil)

		require.NoError(t, err)
		assert.False(t, res.NoOfficerFound)
		assert.Equal(t, domain.StatusAssigned, res.Report.Status)
		require.NotNil(t, res.Report.AssigneeID)
		assert.Equal(t, electric1, *res.Report.AssigneeID)
	})

	t.Run("least loaded staff member gets the next report", func(t *testing.T) {
		f := setupService(t, electric1, electric2)
		first := f.create(t)
		second := f.create(t)

		_, err := f.svc.ApproveReport(ctx, first.ID, proID, nil)
		require.NoError(t, err)
		res, err := f.svc.ApproveReport(ctx, second.ID, proID, nil)

		require.NoError(t, err)
		assert.Equal(t, electric2, *res.Report.AssigneeID)
	})

	t.Run("category override reroutes", func(t *testing.T) {
		f := setupService(t, electric1)
		d := f.draft(t)
		d.Category = domain.CategoryOther
		r, err := f.svc.CreateReport(ctx, citizenID, d, domain.BotPhotoLimits)
		require.NoError(t, err)

		lighting := domain.CategoryPublicLighting
		res, err := f.svc.ApproveReport(ctx, r.ID, proID, &lighting)

		require.NoError(t, err)
		assert.Equal(t, domain.CategoryPublicLighting, res.Report.Category)
		assert.Equal(t, domain.StatusAssigned, res.Report.Status)
	})

	t.Run("invalid override", func(t *testing.T) {
		f := setupService(t, electric1)
		r := f.create(t)
		bogus := domain.Category("Potholes")

		_, err := f.svc.ApproveReport(ctx, r.ID, proID, &bogus)

		assert.Equal(t, domain.ReasonInvalidCategory, domain.ReasonOf(err))
	})

	t.Run("no officer keeps report pending", func(t *testing.T) {
		f := setupService(t)
		r := f.create(t)

		res, err := f.svc.ApproveReport(ctx, r.ID, proID, nil)

		require.NoError(t, err)
		assert.True(t, res.NoOfficerFound)
		assert.Equal(t, domain.StatusPendingApproval, res.Report.Status)
		assert.Nil(t, res.Report.AssigneeID)
	})

	t.Run("no officer persists category override", func(t *testing.T) {
		f := setupService(t)
		r := f.create(t)
		waste := domain.CategoryWaste

		res, err := f.svc.ApproveReport(ctx, r.ID, proID, &waste)

		require.NoError(t, err)
		assert.True(t, res.NoOfficerFound)
		stored, err := f.store.GetReportByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryWaste, stored.Category)
		assert.Equal(t, domain.StatusPendingApproval, stored.Status)
	})

	t.Run("guards", func(t *testing.T) {
		f := setupService(t, electric1)
		r := f.create(t)

		_, err := f.svc.ApproveReport(ctx, r.ID, citizenID, nil)
		assert.ErrorIs(t, err, domain.ErrInsufficientRights)

		_, err = f.svc.ApproveReport(ctx, r.ID, "ghost", nil)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = f.svc.ApproveReport(ctx, "missing", proID, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestApproveRejectOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, electric1)

	approved := f.create(t)
	_, err := f.svc.ApproveReport(ctx, approved.ID, proID, nil)
	require.NoError(t, err)

	rejected := f.create(t)
	_, err = f.svc.RejectReport(ctx, rejected.ID, "Duplicate", proID)
	require.NoError(t, err)

	for _, id := range []string{approved.ID, rejected.ID} {
		before, err := f.store.GetReportByID(ctx, id)
		require.NoError(t, err)

		_, err = f.svc.ApproveReport(ctx, id, proID, nil)
		assert.ErrorIs(t, err, domain.ErrBadRequest)
		assert.Contains(t, err.Error(), "Cannot approve report with status "+string(before.Status))

		_, err = f.svc.RejectReport(ctx, id, "again", proID)
		assert.ErrorIs(t, err, domain.ErrBadRequest)
		assert.Contains(t, err.Error(), "Cannot reject report with status "+string(before.Status))

		after, err := f.store.GetReportByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}
}

func TestRejectReport(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, electric1)
	r := f.create(t)

	_, err := f.svc.RejectReport(ctx, r.ID, "   ", proID)
	assert.Equal(t, domain.ReasonMissingReason, domain.ReasonOf(err))

	_, err = f.svc.RejectReport(ctx, r.ID, "Not municipal", electric1)
	assert.ErrorIs(t, err, domain.ErrInsufficientRights)

	rejected, err := f.svc.RejectReport(ctx, r.ID, "  Not municipal ", proID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "Not municipal", *rejected.RejectionReason)
	assert.Nil(t, rejected.AssigneeID)
}

func TestStatusFieldInvariants(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, electric1)

	check := func(r *domain.Report) {
		t.Helper()
		assert.Equal(t, r.Status == domain.StatusRejected, r.RejectionReason != nil, "status %s", r.Status)
		assert.Equal(t, r.Status.RequiresAssignee(), r.AssigneeID != nil, "status %s", r.Status)
	}

	for i := 0; i < 4; i++ {
		r := f.create(t)
		check(r)
		if i%2 == 0 {
			res, err := f.svc.ApproveReport(ctx, r.ID, proID, nil)
			require.NoError(t, err)
			check(res.Report)
		} else {
			rej, err := f.svc.RejectReport(ctx, r.ID, "reason", proID)
			require.NoError(t, err)
			check(rej)
		}
	}

	all, err := f.store.ListReports(ctx, models.ReportFilter{})
	require.NoError(t, err)
	for i := range all {
		check(&all[i])
	}
}

func TestGetAllReportsVisibility(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, electric1)

	pending := f.create(t)
	assigned := f.create(t)
	_, err := f.svc.ApproveReport(ctx, assigned.ID, proID, nil)
	require.NoError(t, err)

	for _, actor := range []string{citizenID, electric1, externalID} {
		list, err := f.svc.GetAllReports(ctx, actor, nil, nil)
		require.NoError(t, err)
		for _, r := range list {
			assert.NotEqual(t, domain.StatusPendingApproval, r.Status)
		}
		assert.Len(t, list, 1)

		st := domain.StatusPendingApproval
		_, err = f.svc.GetAllReports(ctx, actor, &st, nil)
		assert.ErrorIs(t, err, domain.ErrInsufficientRights)
		assert.Equal(t, "Only Municipal Public Relations Officers can view pending reports", err.Error())
	}

	list, err := f.svc.GetAllReports(ctx, proID, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, assigned.ID, list[0].ID)
	assert.Equal(t, pending.ID, list[1].ID)

	st := domain.StatusPendingApproval
	list, err = f.svc.GetAllReports(ctx, proID, &st, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)

	bogus := domain.Category("Nope")
	_, err = f.svc.GetAllReports(ctx, proID, nil, &bogus)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestGetMyAssignedReportsNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, electric1)

	var ids []string
	for i := 0; i < 3; i++ {
		r := f.create(t)
		_, err := f.svc.ApproveReport(ctx, r.ID, proID, nil)
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	list, err := f.svc.GetMyAssignedReports(ctx, electric1, nil)

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})

	_, err = f.svc.GetMyAssignedReports(ctx, citizenID, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientRights)
}

func TestGetReportVisibility(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	r := f.create(t)

	_, err := f.svc.GetReport(ctx, citizenID, r.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetReport(ctx, proID, r.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetReport(ctx, otherID, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEndToEndPublicLighting(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, electric1)

	r := f.create(t)
	require.Equal(t, domain.StatusPendingApproval, r.Status)

	res, err := f.svc.ApproveReport(ctx, r.ID, proID, nil)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAssigned, res.Report.Status)
	staff, err := f.store.GetUserByID(ctx, *res.Report.AssigneeID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleElectricalStaff, staff.Role)
	assert.Equal(t, "Public Lighting Department", staff.Department)

	updated, err := f.svc.UpdateReportStatus(ctx, r.ID, staff.ID, domain.StatusInProgress, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)

	_, err = f.svc.UpdateReportStatus(ctx, r.ID, staff.ID, domain.StatusPendingApproval, "", "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Equal(t, "Cannot change status from In Progress to Pending Approval", err.Error())
}

func TestUpdateReportStatus(t *testing.T) {
	ctx := context.Background()

	assignedReport := func(t *testing.T, f *fixture) *domain.Report {
		r := f.create(t)
		res, err := f.svc.ApproveReport(ctx, r.ID, proID, nil)
		require.NoError(t, err)
		return res.Report
	}

	t.Run("work cycle", func(t *testing.T) {
		f := setupService(t, electric1)
		r := assignedReport(t, f)

		for _, st := range []domain.Status{domain.StatusSuspended, domain.StatusInProgress, domain.StatusResolved} {
			updated, err := f.svc.UpdateReportStatus(ctx, r.ID, electric1, st, "", "")
			require.NoError(t, err, "to %s", st)
			assert.Equal(t, st, updated.Status)
			assert.Equal(t, electric1, *updated.AssigneeID)
		}
	})

	t.Run("external maintenance", func(t *testing.T) {
		f := setupService(t, electric1)
		r := assignedReport(t, f)

		// Act
		updated, err := f.svc.UpdateReportStatus(ctx, r.ID, electric1, domain.StatusInExternalMaintenance, "", externalID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInExternalMaintenance, updated.Status)
		require.NotNil(t, updated.AssigneeID)
		assert.Equal(t, externalID, *updated.AssigneeID)

		mine, err := f.svc.GetMyAssignedReports(ctx, externalID, nil)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, r.ID, mine[0].ID)

		left, err := f.svc.GetMyAssignedReports(ctx, electric1, nil)
		require.NoError(t, err)
		assert.Empty(t, left)

		_, err = f.svc.UpdateReportStatus(ctx, r.ID, electric1, domain.StatusResolved, "", "")
		assert.ErrorIs(t, err, domain.ErrInsufficientRights)

		updated, err = f.svc.UpdateReportStatus(ctx, r.ID, externalID, domain.StatusResolved, "", "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusResolved, updated.Status)
		assert.Equal(t, externalID, *updated.AssigneeID)
	})

	t.Run("delegation needs an external maintainer", func(t *testing.T) {
		f := setupService(t, electric1, electric2)
		r := assignedReport(t, f)

		for _, target := range []string{"", "nobody", electric2, citizenID} {
			_, err := f.svc.UpdateReportStatus(ctx, r.ID, electric1, domain.StatusInExternalMaintenance, "", target)
			assert.Equal(t, domain.ReasonInvalidMaintainer, domain.ReasonOf(err), "target %q", target)
		}

		current, err := f.svc.GetReport(ctx, proID, r.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAssigned, current.Status)
		assert.Equal(t, electric1, *current.AssigneeID)
	})

	t.Run("external maintainer cannot delegate", func(t *testing.T) {
		f := setupService(t, electric1)
		r := assignedReport(t, f)

		_, err := f.svc.UpdateReportStatus(ctx, r.ID, externalID, domain.StatusInExternalMaintenance, "", externalID)
		assert.ErrorIs(t, err, domain.ErrInsufficientRights)
	})

	t.Run("only assignee", func(t *testing.T) {
		f := setupService(t, electric1, electric2)
		r := assignedReport(t, f)

		_, err := f.svc.UpdateReportStatus(ctx, r.ID, electric2, domain.StatusInProgress, "", "")
		assert.ErrorIs(t, err, domain.ErrInsufficientRights)
	})

	t.Run("reject through generic entry needs reason", func(t *testing.T) {
		f := setupService(t, electric1)
		r := f.create(t)

		_, err := f.svc.UpdateReportStatus(ctx, r.ID, proID, domain.StatusRejected, "", "")
		assert.Equal(t, domain.ReasonMissingReason, domain.ReasonOf(err))

		updated, err := f.svc.UpdateReportStatus(ctx, r.ID, proID, domain.StatusRejected, "Out of scope", "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, updated.Status)
	})

	t.Run("assign through generic entry", func(t *testing.T) {
		f := setupService(t, electric1)
		r := f.create(t)

		updated, err := f.svc.UpdateReportStatus(ctx, r.ID, proID, domain.StatusAssigned, "", "")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusAssigned, updated.Status)
	})

	t.Run("illegal jumps", func(t *testing.T) {
		f := setupService(t, electric1)
		r := assignedReport(t, f)

		_, err := f.svc.UpdateReportStatus(ctx, r.ID, electric1, domain.StatusResolved, "", "")
		assert.Equal(t, domain.ReasonIllegalTransition, domain.ReasonOf(err))
		_, err = f.svc.UpdateReportStatus(ctx, r.ID, electric1, domain.StatusRejected, "x", "")
		assert.Equal(t, domain.ReasonIllegalTransition, domain.ReasonOf(err))
	})
}

func TestConcurrentApproveSingleWinner(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, electric1, electric2)
	r := f.create(t)

	const workers = 6
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = f.svc.ApproveReport(ctx, r.ID, proID, nil)
			} else {
				_, errs[i] = f.svc.RejectReport(ctx, r.ID, "dup", proID)
			}
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrBadRequest)
		assert.Equal(t, domain.ReasonIllegalTransition, domain.ReasonOf(err))
	}
	assert.Equal(t, 1, wins)

	final, err := f.store.GetReportByID(ctx, r.ID)
	require.NoError(t, err)
	assert.NotEqual(t, domain.StatusPendingApproval, final.Status)
}

func TestToDTOHidesAnonymousReporter(t *testing.T) {
	r := &domain.Report{ID: "r1", ReporterID: citizenID, IsAnonymous: true, Status: domain.StatusAssigned}
	assert.Nil(t, ToDTO(r).ReporterID)
	assert.Equal(t, []string{}, ToDTO(r).Photos)

	r.IsAnonymous = false
	dto := ToDTO(r)
	require.NotNil(t, dto.ReporterID)
	assert.Equal(t, citizenID, *dto.ReporterID)
	assert.Equal(t, "Assigned", dto.Status)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(domain.StatusAssigned, domain.StatusInProgress))
	assert.True(t, CanTransition(domain.StatusSuspended, domain.StatusInProgress))
	assert.False(t, CanTransition(domain.StatusResolved, domain.StatusInProgress))
	assert.False(t, CanTransition(domain.StatusInProgress, domain.StatusPendingApproval))
	assert.Equal(t, []domain.Status{domain.StatusResolved, domain.StatusSuspended}, NextStatuses(domain.StatusInProgress))
}
