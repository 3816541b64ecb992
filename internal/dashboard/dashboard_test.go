package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/dashboard"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore keeps records in memory. When gate is set, Update blocks on it
// after signalling entered. listGate does the same for List.
type fakeStore struct {
	mu        sync.Mutex
	records   map[string]*employee.Employee
	nextID    int
	listCalls int
	failList  error
	failWrite error
	entered   chan struct{}
	gate      chan struct{}

	listEntered chan struct{}
	listGate    chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*employee.Employee)}
}

func (s *fakeStore) List(ctx context.Context) ([]*employee.Employee, error) {
	if s.listGate != nil {
		s.listEntered <- struct{}{}
		select {
		case <-s.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.failList != nil {
		return nil, s.failList
	}
	out := make([]*employee.Employee, 0, len(s.records))
	for _, e := range s.records {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return e.Clone(), nil
}

func (s *fakeStore) Create(ctx context.Context, draft *employee.Draft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return "", s.failWrite
	}
	s.nextID++
	e := draft.ToEmployee()
	e.ID = fmt.Sprintf("emp-%d", s.nextID)
	s.records[e.ID] = e
	return e.ID, nil
}

func (s *fakeStore) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	if s.gate != nil {
		s.entered <- struct{}{}
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return nil, s.failWrite
	}
	e, ok := s.records[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	patch.Apply(e)
	return e.Clone(), nil
}

func (s *fakeStore) Replace(ctx context.Context, id string, draft *employee.Draft) (*employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return nil, s.failWrite
	}
	old, ok := s.records[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	next := draft.ToEmployee()
	next.ID = id
	next.History = old.History
	s.records[id] = next
	return next.Clone(), nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	if _, ok := s.records[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *fakeStore) seed(e *employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[e.ID] = e
}

type fakePictures struct {
	uploaded []string
	fail     error
}

func (p *fakePictures) UploadProfilePicture(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	if p.fail != nil {
		return "", p.fail
	}
	p.uploaded = append(p.uploaded, fileName)
	return "http://localhost:8080/api/v1/files/profilePictures/" + fileName, nil
}

func anaDraft() *employee.Draft {
	return &employee.Draft{
		FirstName:     "Ana",
		LastName:      "Silva",
		JobTitle:      "Analyst",
		Department:    "Sales",
		Salary:        "3000",
		AdmissionDate: "2024-01-10",
	}
}

var _ = Describe("Controller", func() {
	var (
		store      *fakeStore
		pictures   *fakePictures
		controller *dashboard.Controller
		ctx        context.Context
	)

	BeforeEach(func() {
		store = newFakeStore()
		pictures = &fakePictures{}
		controller = dashboard.NewController(store, pictures, i18n.MustFor(i18n.LocaleEnglish), discardLogger())
		ctx = context.Background()
	})

	It("should start idle and load on refresh", func() {
		Expect(controller.State()).To(Equal(dashboard.StateIdle))
		Expect(controller.Refresh(ctx)).To(Succeed())

		view := controller.View()
		Expect(view.State).To(Equal(dashboard.StateLoaded))
		Expect(view.Title).To(Equal("Employee Dashboard"))
		Expect(view.Cards).To(BeEmpty())
		Expect(view.RefreshedAt).NotTo(BeNil())
	})

	It("should walk Ana Silva through register, promote, terminate and remove", func() {
		store.seed(&employee.Employee{ID: "emp-bruno", FirstName: "Bruno", LastName: "Costa", JobTitle: "Manager", Department: "Sales"})

		id, err := controller.Create(ctx, anaDraft())
		Expect(err).NotTo(HaveOccurred())

		view := controller.View()
		Expect(view.Cards).To(HaveLen(2))
		Expect(view.Cards[0].ID).To(Equal("emp-bruno"))
		Expect(view.Cards[1].ID).To(Equal(id))
		Expect(view.Cards[1].Title).To(Equal("Ana Silva — Analyst — Sales"))
		Expect(view.Cards[1].AvatarURL).To(Equal(dashboard.DefaultAvatarURL))
		Expect(view.Notice.Message).To(Equal("Employee registered successfully!"))

		modal, err := controller.OpenPromote(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(modal.Position).To(Equal("Analyst"))
		Expect(modal.Salary).To(Equal(employee.Salary("3000")))
		Expect(modal.PositionLabel).To(Equal("Position"))
		Expect(modal.DepartmentLabel).To(Equal("Department"))
		Expect(modal.SubmitLabel).To(Equal("Update Position and Department"))

		Expect(controller.Promote(ctx, id, employee.Promotion{
			Position: "Senior Analyst", Department: "Sales", Salary: "4000",
		})).To(Succeed())

		view = controller.View()
		Expect(view.Modal).To(BeNil())
		Expect(view.Cards[1].Title).To(Equal("Ana Silva — Senior Analyst — Sales"))

		Expect(controller.Terminate(ctx, id)).To(Succeed())

		e, ok := controller.Employee(id)
		Expect(ok).To(BeTrue())
		Expect(e.IsTerminated).To(BeTrue())
		Expect(e.Salary).To(Equal(employee.Salary("4000")))
		Expect(e.History).To(HaveLen(2))
		Expect(e.History[0].Event).To(Equal("Promoted to Senior Analyst (Sales)"))
		Expect(e.History[1].Event).To(Equal("Terminated"))

		view = controller.View()
		Expect(view.Cards).To(HaveLen(2))
		Expect(view.Cards[0].ID).To(Equal("emp-bruno"))
		Expect(view.Cards[0].IsTerminated).To(BeFalse())
		Expect(view.Cards[1].ID).To(Equal(id))
		Expect(view.Cards[1].TerminatedMarker).To(Equal("Terminated"))
		Expect(view.Notice.Level).To(Equal(dashboard.NoticeSuccess))
		Expect(view.Notice.Message).To(Equal("Employee terminated successfully!"))

		Expect(controller.Remove(ctx, id)).To(Succeed())

		_, err = store.Get(ctx, id)
		Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
		view = controller.View()
		Expect(view.Cards).To(HaveLen(1))
		Expect(view.Cards[0].ID).To(Equal("emp-bruno"))
	})

	It("should list active employees before terminated ones", func() {
		store.seed(&employee.Employee{ID: "a", FirstName: "Zoe", LastName: "Alves", IsTerminated: true})
		store.seed(&employee.Employee{ID: "b", FirstName: "Bruno", LastName: "Costa"})
		store.seed(&employee.Employee{ID: "c", FirstName: "Ana", LastName: "costa"})
		store.seed(&employee.Employee{ID: "d", FirstName: "Caio", LastName: "Barros", IsTerminated: true})

		Expect(controller.Refresh(ctx)).To(Succeed())

		ids := []string{}
		seenTerminated := false
		for _, card := range controller.View().Cards {
			ids = append(ids, card.ID)
			if card.IsTerminated {
				seenTerminated = true
			} else {
				Expect(seenTerminated).To(BeFalse())
			}
		}
		Expect(ids).To(Equal([]string{"c", "b", "a", "d"}))
	})

	It("should keep the previous list when a refresh fails", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva"})
		Expect(controller.Refresh(ctx)).To(Succeed())

		store.failList = errors.New("connection reset")
		err := controller.Refresh(ctx)
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeUnknownProvider))

		view := controller.View()
		Expect(view.State).To(Equal(dashboard.StateLoaded))
		Expect(view.Cards).To(HaveLen(1))
		Expect(view.Notice.Level).To(Equal(dashboard.NoticeError))
		Expect(view.Notice.Message).To(Equal("Could not load employees. Showing the last known list."))
	})

	It("should finish a shared refresh when the caller that started it goes away", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva"})
		store.listEntered = make(chan struct{}, 2)
		store.listGate = make(chan struct{})

		first, cancel := context.WithCancel(ctx)
		firstDone := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			firstDone <- controller.Refresh(first)
		}()
		Eventually(store.listEntered).Should(Receive())

		secondDone := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			secondDone <- controller.Refresh(ctx)
		}()

		cancel()
		Eventually(firstDone).Should(Receive(MatchError(context.Canceled)))
		Consistently(secondDone, 50*time.Millisecond).ShouldNot(Receive())

		close(store.listGate)
		Eventually(secondDone).Should(Receive(BeNil()))

		view := controller.View()
		Expect(view.State).To(Equal(dashboard.StateLoaded))
		Expect(view.Cards).To(HaveLen(1))
		Expect(view.Notice).To(BeNil())
	})

	It("should reject a promotion with missing fields and keep the modal", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva", JobTitle: "Analyst", Department: "Sales", Salary: "3000"})
		Expect(controller.Refresh(ctx)).To(Succeed())
		_, err := controller.OpenPromote("emp-1")
		Expect(err).NotTo(HaveOccurred())

		err = controller.Promote(ctx, "emp-1", employee.Promotion{Position: "Lead"})
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))

		view := controller.View()
		Expect(view.Modal).NotTo(BeNil())
		Expect(view.Modal.Position).To(Equal("Lead"))
		Expect(view.Notice.Message).To(Equal("Please fill in all required fields."))
	})

	It("should keep the modal open when the store rejects a promotion", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva", JobTitle: "Analyst", Department: "Sales", Salary: "3000"})
		Expect(controller.Refresh(ctx)).To(Succeed())
		_, err := controller.OpenPromote("emp-1")
		Expect(err).NotTo(HaveOccurred())

		store.failWrite = errors.New("permission denied")
		err = controller.Promote(ctx, "emp-1", employee.Promotion{Position: "Lead", Department: "Sales", Salary: "5000"})
		Expect(err).To(HaveOccurred())
		Expect(controller.View().Modal).NotTo(BeNil())
		Expect(controller.View().Notice.Message).To(Equal("Could not update the employee."))
	})

	It("should report NotFound when opening the modal for an unlisted id", func() {
		_, err := controller.OpenPromote("missing")
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
	})

	It("should reject a second mutation on a record while the first is in flight", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva"})
		store.entered = make(chan struct{})
		store.gate = make(chan struct{})

		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- controller.Terminate(ctx, "emp-1")
		}()
		Eventually(store.entered).Should(Receive())

		err := controller.Terminate(ctx, "emp-1")
		Expect(errors.Is(err, internal.ErrMutationInFlight)).To(BeTrue())
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeConflict))
		Expect(controller.View().InFlight).To(ConsistOf("emp-1"))

		close(store.gate)
		Eventually(done).Should(Receive(BeNil()))
		Expect(controller.View().InFlight).To(BeEmpty())
	})

	It("should remove an employee and re-read the list", func() {
		store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva"})
		Expect(controller.Refresh(ctx)).To(Succeed())
		calls := store.listCalls

		Expect(controller.Remove(ctx, "emp-1")).To(Succeed())
		Expect(store.listCalls).To(Equal(calls + 1))
		Expect(controller.View().Cards).To(BeEmpty())
		Expect(controller.Remove(ctx, "emp-1")).To(MatchError(employee.ErrEmployeeNotFound))
	})

	Describe("edit form", func() {
		It("should label every form field in the configured locale", func() {
			pt := dashboard.NewController(store, pictures, i18n.MustFor(i18n.LocalePortuguese), discardLogger())
			pt.BeginCreate()

			labels := pt.View().Edit.Labels
			Expect(labels).To(HaveLen(13))
			Expect(labels).To(HaveKeyWithValue("firstName", "Nome"))
			Expect(labels).To(HaveKeyWithValue("salary", "Salário"))
		})

		It("should fail field changes when no form is open", func() {
			_, err := controller.SetField("firstName", "Ana")
			Expect(errors.Is(err, dashboard.ErrNoDraft)).To(BeTrue())
			_, err = controller.ToggleTerminated()
			Expect(errors.Is(err, dashboard.ErrNoDraft)).To(BeTrue())
		})

		It("should replace the record with the edited draft and keep history", func() {
			store.seed(&employee.Employee{
				ID: "emp-1", FirstName: "Ana", LastName: "Silva", JobTitle: "Analyst", Department: "Sales",
				Salary: "3000", AdmissionDate: "2024-01-10",
				History: []employee.HistoryEntry{{Date: "2024-06-01", Event: "Promoted to Analyst (Sales)"}},
			})

			draft, err := controller.BeginEdit(ctx, "emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.FirstName).To(Equal("Ana"))

			form := controller.View().Edit
			Expect(form.Labels).To(HaveKeyWithValue("firstName", "First Name"))
			Expect(form.Labels).To(HaveKeyWithValue("admissionDate", "Admission Date"))
			Expect(form.Labels).To(HaveKeyWithValue("isTerminated", "Terminated"))

			_, err = controller.SetField("phone", "+55 11 99999-0000")
			Expect(err).NotTo(HaveOccurred())
			draft, err = controller.ToggleTerminated()
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.IsTerminated).To(BeTrue())
			Expect(controller.SetPicture(&employee.Attachment{FileName: "ana.png", ContentType: "image/png", Data: []byte("png")})).To(Succeed())

			id, err := controller.SubmitEdit(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("emp-1"))
			Expect(pictures.uploaded).To(Equal([]string{"ana.png"}))

			e, err := store.Get(ctx, "emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Phone).To(Equal("+55 11 99999-0000"))
			Expect(e.IsTerminated).To(BeTrue())
			Expect(*e.ProfilePictureURL).To(HaveSuffix("/profilePictures/ana.png"))
			Expect(e.History).To(HaveLen(1))

			view := controller.View()
			Expect(view.Edit).To(BeNil())
			Expect(view.Notice.Message).To(Equal("Employee data updated successfully!"))
		})

		It("should keep the draft when the picture upload fails", func() {
			store.seed(&employee.Employee{ID: "emp-1", FirstName: "Ana", LastName: "Silva", JobTitle: "Analyst", Department: "Sales", Salary: "3000", AdmissionDate: "2024-01-10"})
			_, err := controller.BeginEdit(ctx, "emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.SetPicture(&employee.Attachment{FileName: "ana.png", Data: []byte("png")})).To(Succeed())

			pictures.fail = internal.NewUploadError("Failed to upload file", errors.New("disk full"))
			_, err = controller.SubmitEdit(ctx)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeUpload))

			view := controller.View()
			Expect(view.Edit).NotTo(BeNil())
			Expect(view.Edit.PendingPicture).To(Equal("ana.png"))
		})

		It("should register a new employee from an empty form", func() {
			controller.BeginCreate()
			for field, value := range map[string]string{
				"firstName": "Ana", "lastName": "Silva", "jobTitle": "Analyst",
				"department": "Sales", "salary": "3000", "admissionDate": "2024-01-10",
			} {
				_, err := controller.SetField(field, value)
				Expect(err).NotTo(HaveOccurred())
			}

			id, err := controller.SubmitEdit(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())
			Expect(controller.View().Cards).To(HaveLen(1))
		})
	})

	It("should upload the picture before creating the record", func() {
		draft := anaDraft()
		draft.ProfilePicture = &employee.Attachment{FileName: "ana.png", ContentType: "image/png", Data: []byte("png")}

		id, err := controller.Create(ctx, draft)
		Expect(err).NotTo(HaveOccurred())

		e, ok := controller.Employee(id)
		Expect(ok).To(BeTrue())
		Expect(*e.ProfilePictureURL).To(HaveSuffix("/profilePictures/ana.png"))
		Expect(controller.View().Cards[0].AvatarURL).To(Equal(*e.ProfilePictureURL))
	})

	It("should not upload anything for an invalid draft", func() {
		draft := anaDraft()
		draft.LastName = ""
		draft.ProfilePicture = &employee.Attachment{FileName: "ana.png", Data: []byte("png")}

		_, err := controller.Create(ctx, draft)
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		Expect(pictures.uploaded).To(BeEmpty())
		Expect(controller.View().Notice.Message).To(Equal("Error registering employee. Please try again."))
	})
})

var _ = Describe("Registry", func() {
	It("should keep one controller per session and evict on session.revoked", func() {
		registry := dashboard.NewRegistry(newFakeStore(), nil, nil, discardLogger())

		first := registry.For("sess-1")
		Expect(registry.For("sess-1")).To(BeIdenticalTo(first))
		Expect(registry.For("sess-2")).NotTo(BeIdenticalTo(first))
		Expect(registry.Len()).To(Equal(2))

		bus := events.NewEventBus(discardLogger())
		bus.Subscribe(events.EventTypeSessionRevoked, registry.HandleSessionRevoked)
		Expect(bus.PublishSync(context.Background(), events.NewSessionRevokedEvent("sess-1", "user-1"))).To(Succeed())

		Expect(registry.Len()).To(Equal(1))
		Expect(registry.For("sess-1")).NotTo(BeIdenticalTo(first))
	})

	It("should sweep idle controllers", func() {
		registry := dashboard.NewRegistry(newFakeStore(), nil, nil, discardLogger())
		c := registry.For("sess-1")

		Expect(registry.Sweep(c.LastUsed(), time.Minute)).To(Equal(0))
		Expect(registry.Sweep(c.LastUsed().Add(2*time.Minute), time.Minute)).To(Equal(1))
		Expect(registry.Len()).To(Equal(0))
	})
})
