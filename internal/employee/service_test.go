package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
)

func TestEmployee(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

// Mock repository for testing
type mockEmployeeRepository struct {
	employees map[string]*employee.Employee
	nextID    int
	failWith  error
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: make(map[string]*employee.Employee)}
}

func (m *mockEmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]*employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (m *mockEmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return e.Clone(), nil
}

func (m *mockEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.nextID++
	e.ID = fmt.Sprintf("emp-%d", m.nextID)
	m.employees[e.ID] = e.Clone()
	return nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	patch.Apply(e)
	return e.Clone(), nil
}

func (m *mockEmployeeRepository) Replace(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	old, ok := m.employees[e.ID]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	next := e.Clone()
	next.History = old.History
	m.employees[e.ID] = next
	return next.Clone(), nil
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id string) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventType())
	return nil
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

var _ = Describe("Employee Service", func() {
	var (
		repo      *mockEmployeeRepository
		publisher *recordingPublisher
		service   *employee.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockEmployeeRepository()
		publisher = &recordingPublisher{}
		service = employee.NewService(repo, publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("should store a valid draft and return its id", func() {
			id, err := service.Create(ctx, anaDraft())
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())

			all, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0].ID).To(Equal(id))
			Expect(all[0].JobTitle).To(Equal("Analyst"))
			Expect(publisher.events).To(ContainElement(events.EventTypeEmployeeCreated))
		})

		It("should reject a draft without required fields", func() {
			draft := anaDraft()
			draft.FirstName = ""
			draft.Salary = ""

			_, err := service.Create(ctx, draft)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			fields := []string{}
			for _, d := range details.Errors {
				fields = append(fields, d.Field)
			}
			Expect(fields).To(ConsistOf("firstName", "salary"))
			Expect(repo.employees).To(BeEmpty())
		})

		DescribeTable("should reject salaries that are not plain non-negative numbers",
			func(salary string) {
				draft := anaDraft()
				draft.Salary = employee.Salary(salary)

				_, err := service.Create(ctx, draft)
				Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
				Expect(repo.employees).To(BeEmpty())
			},
			Entry("NaN", "NaN"),
			Entry("infinity", "Inf"),
			Entry("signed infinity", "+Inf"),
			Entry("hex float", "0x1p4"),
			Entry("negative", "-10"),
			Entry("words", "three thousand"),
			Entry("out of range", "1e999"),
		)

		It("should accept plain decimal salaries", func() {
			draft := anaDraft()
			draft.Salary = "4000.50"

			_, err := service.Create(ctx, draft)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject malformed dates", func() {
			draft := anaDraft()
			draft.AdmissionDate = "10/01/2024"

			_, err := service.Create(ctx, draft)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("Get", func() {
		It("should return NotFound for an unknown id", func() {
			_, err := service.Get(ctx, "missing")
			Expect(errors.Is(err, employee.ErrEmployeeNotFound)).To(BeTrue())
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("Update", func() {
		It("should merge fields and publish an update event", func() {
			id, err := service.Create(ctx, anaDraft())
			Expect(err).NotTo(HaveOccurred())

			terminated := true
			e, err := service.Update(ctx, id, employee.Patch{IsTerminated: &terminated})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.IsTerminated).To(BeTrue())
			Expect(e.JobTitle).To(Equal("Analyst"))
			Expect(publisher.events).To(ContainElement(events.EventTypeEmployeeUpdated))
		})

		It("should reject an empty patch", func() {
			id, err := service.Create(ctx, anaDraft())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(ctx, id, employee.Patch{})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject a NaN salary in a patch", func() {
			id, err := service.Create(ctx, anaDraft())
			Expect(err).NotTo(HaveOccurred())

			salary := employee.Salary("NaN")
			_, err = service.Update(ctx, id, employee.Patch{Salary: &salary})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
			Expect(repo.employees[id].Salary).To(Equal(employee.Salary("3000")))
		})

		It("should reject a promotion with an infinite salary", func() {
			p := employee.Promotion{Position: "Lead", Department: "Sales", Salary: "Inf"}
			Expect(internal.KindOf(p.Validate())).To(Equal(internal.ErrorTypeValidation))
		})

		It("should report NotFound when the record is gone", func() {
			title := "Lead"
			_, err := service.Update(ctx, "missing", employee.Patch{JobTitle: &title})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("Delete", func() {
		It("should make the record unreachable", func() {
			id, err := service.Create(ctx, anaDraft())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, id)).To(Succeed())

			_, err = service.Get(ctx, id)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
			Expect(publisher.events).To(ContainElement(events.EventTypeEmployeeDeleted))
		})

		It("should treat a missing id as NotFound", func() {
			err := service.Delete(ctx, "missing")
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Context("when the store fails", func() {
		It("should surface an unknown provider error", func() {
			repo.failWith = errors.New("connection reset")

			_, err := service.List(ctx)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeUnknownProvider))
			Expect(errors.Unwrap(err)).To(MatchError("connection reset"))
		})
	})
})

var _ = Describe("Salary", func() {
	It("should decode numbers and strings", func() {
		var d employee.Draft
		Expect(json.Unmarshal([]byte(`{"salary": 3000}`), &d)).To(Succeed())
		Expect(d.Salary).To(Equal(employee.Salary("3000")))

		Expect(json.Unmarshal([]byte(`{"salary": "4000.50"}`), &d)).To(Succeed())
		Expect(d.Salary).To(Equal(employee.Salary("4000.50")))
	})

	It("should reject other JSON types", func() {
		var d employee.Draft
		Expect(json.Unmarshal([]byte(`{"salary": true}`), &d)).NotTo(Succeed())
	})
})
