package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/events"
	"github.com/helpdesk-hq/helpdesk-service/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.Ticket

	// forceDuplicates makes the next N Create calls fail with
	// ErrDuplicateTicketID regardless of the candidate identity.
	forceDuplicates int
	// preexisting identities make ExistsTicketID report a collision.
	taken map[string]bool
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[string]*domain.Ticket),
		taken:   make(map[string]bool),
	}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceDuplicates > 0 {
		r.forceDuplicates--
		return repository.ErrDuplicateTicketID
	}
	for _, existing := range r.tickets {
		if existing.TicketID == ticket.TicketID {
			return repository.ErrDuplicateTicketID
		}
	}
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := *stored
	return &ticket, nil
}

func (r *fakeTicketRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.tickets {
		if stored.TicketID == ticketID {
			ticket := *stored
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ExistsTicketID(_ context.Context, ticketID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken[ticketID] {
		return true, nil
	}
	for _, stored := range r.tickets {
		if stored.TicketID == ticketID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, stored := range r.tickets {
		if filter.CreatedBy != nil && stored.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.AssignedTo != nil {
			if stored.AssignedTo == nil || *stored.AssignedTo != *filter.AssignedTo {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
			continue
		}
		out = append(out, *stored)
	}
	return out, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func containsStatus(statuses []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments []*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments = append(r.comments, &stored)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.comments {
		if stored.ID == id {
			comment := *stored
			return &comment, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, stored := range r.comments {
		if stored.TicketID == ticketID {
			out = append(out, *stored)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.comments {
		if stored.ID == comment.ID {
			stored.Content = comment.Content
			stored.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCommentRepo) byTicket(ticketID string) []domain.Comment {
	out, _ := r.ListByTicket(context.Background(), ticketID)
	return out
}

// fakeAssignRepo lands the assignment comment in a comment store so tests
// can inspect it.
type fakeAssignRepo struct {
	*fakeTicketRepo
	comments  *fakeCommentRepo
	assignErr error
}

func (r *fakeAssignRepo) AssignWithComment(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) error {
	if r.assignErr != nil {
		return r.assignErr
	}
	if err := r.fakeTicketRepo.Update(ctx, ticket); err != nil {
		return err
	}
	return r.comments.Create(ctx, comment)
}

func (r *fakeTicketRepo) AssignWithComment(ctx context.Context, ticket *domain.Ticket, _ *domain.Comment) error {
	return r.Update(ctx, ticket)
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	profiles map[string]*domain.Profile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*domain.User),
		profiles: make(map[string]*domain.Profile),
	}
}

func (r *fakeUserRepo) add(user domain.User, profile domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile.UserID = user.ID
	r.users[user.ID] = &user
	r.profiles[user.ID] = &profile
}

func (r *fakeUserRepo) CreateWithProfile(_ context.Context, user *domain.User, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	profile.UserID = user.ID
	storedUser, storedProfile := *user, *profile
	r.users[user.ID] = &storedUser
	r.profiles[user.ID] = &storedProfile
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := *stored
	return &user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if stored.Username == username {
			user := *stored
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if stored.Email == email {
			user := *stored
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	profile := *stored
	return &profile, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UserID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *profile
	r.profiles[profile.UserID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	delete(r.profiles, id)
	return nil
}

func (r *fakeUserRepo) Search(_ context.Context, filter repository.UserFilter) ([]domain.User, []domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []domain.User
	var profiles []domain.Profile
	for id, stored := range r.users {
		profile := r.profiles[id]
		if filter.Role != nil && (profile == nil || profile.Role != *filter.Role) {
			continue
		}
		users = append(users, *stored)
		if profile != nil {
			profiles = append(profiles, *profile)
		} else {
			profiles = append(profiles, domain.Profile{UserID: id})
		}
	}
	return users, profiles, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}
