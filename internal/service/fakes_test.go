package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) LinkGoogleID(_ context.Context, id uuid.UUID, googleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.GoogleID = googleID
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	temp     map[string]string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}, temp: map[string]string{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetByRefreshToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RefreshToken == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSessionRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) UpdateLastUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.LastUsedAt = time.Now()
	return nil
}

func (r *fakeSessionRepo) StoreTemporaryAuth(_ context.Context, code, data string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.temp[code] = data
	return nil
}

func (r *fakeSessionRepo) GetTemporaryAuth(_ context.Context, code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.temp[code]
	if !ok {
		return "", domain.ErrNotFound
	}
	delete(r.temp, code)
	return data, nil
}

type fakeOAuth struct {
	info *domain.GoogleUserInfo
	err  error
}

func (f *fakeOAuth) GetAuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeOAuth) ExchangeCode(_ context.Context, code string) (*oauth2.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: "google-" + code}, nil
}

func (f *fakeOAuth) GetUserInfo(context.Context, *oauth2.Token) (*domain.GoogleUserInfo, error) {
	return f.info, nil
}

// fakeCvRepo keeps CVs and components in memory. failAdd makes AddComponents fail.
type fakeCvRepo struct {
	mu         sync.Mutex
	cvs        map[uuid.UUID]*domain.Cv
	components map[uuid.UUID]*domain.CvComponent
	failAdd    error
}

func newFakeCvRepo() *fakeCvRepo {
	return &fakeCvRepo{cvs: map[uuid.UUID]*domain.Cv{}, components: map[uuid.UUID]*domain.CvComponent{}}
}

func (r *fakeCvRepo) Create(_ context.Context, cv *domain.Cv) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cv
	cp.Components = nil
	r.cvs[cv.ID] = &cp
	return nil
}

func (r *fakeCvRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Cv, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.cvs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cv
	cp.Components = r.listLocked(id)
	return &cp, nil
}

func (r *fakeCvRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Cv, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Cv{}
	for _, cv := range r.cvs {
		if cv.UserID == userID {
			cp := *cv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCvRepo) Update(_ context.Context, cv *domain.Cv) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cvs[cv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *cv
	cp.Components = nil
	r.cvs[cv.ID] = &cp
	return nil
}

func (r *fakeCvRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cvs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.cvs, id)
	for cid, c := range r.components {
		if c.CvID == id {
			delete(r.components, cid)
		}
	}
	return nil
}

func (r *fakeCvRepo) addLocked(c *domain.CvComponent) {
	c.Position = len(r.listLocked(c.CvID))
	cp := *c
	r.components[c.ID] = &cp
}

func (r *fakeCvRepo) AddComponent(_ context.Context, c *domain.CvComponent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(c)
	return nil
}

func (r *fakeCvRepo) AddComponents(_ context.Context, components []*domain.CvComponent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return r.failAdd
	}
	for _, c := range components {
		r.addLocked(c)
	}
	return nil
}

func (r *fakeCvRepo) listLocked(cvID uuid.UUID) []*domain.CvComponent {
	out := []*domain.CvComponent{}
	for _, c := range r.components {
		if c.CvID == cvID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (r *fakeCvRepo) ListComponents(_ context.Context, cvID uuid.UUID) ([]*domain.CvComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(cvID), nil
}

func (r *fakeCvRepo) UpdateComponent(_ context.Context, c *domain.CvComponent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.components[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Data = c.Data
	existing.UpdatedAt = c.UpdatedAt
	return nil
}

func (r *fakeCvRepo) DeleteComponent(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.components[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.components, id)
	return nil
}

func (r *fakeCvRepo) ReorderComponents(_ context.Context, cvID uuid.UUID, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pos, id := range ids {
		c, ok := r.components[id]
		if !ok || c.CvID != cvID {
			return domain.ErrNotFound
		}
		c.Position = pos
	}
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.JobPosting
	// lastSkill records the skill filter of the last ListByUserID call.
	lastSkill string
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]*domain.JobPosting{}}
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) ListByUserID(_ context.Context, userID uuid.UUID, skill string, _, _ int) ([]*domain.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSkill = skill
	out := []*domain.JobPosting{}
	for _, job := range r.jobs {
		if job.UserID == userID {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*domain.ApplicationAnalysis
	// failCreate, when set, is returned by Create.
	failCreate error
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{analyses: map[uuid.UUID]*domain.ApplicationAnalysis{}}
}

func (r *fakeAnalysisRepo) Create(_ context.Context, a *domain.ApplicationAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *a
	r.analyses[a.ID] = &cp
	return nil
}

func (r *fakeAnalysisRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ApplicationAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.analyses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnalysisRepo) ListByUserID(_ context.Context, userID uuid.UUID, cvID *uuid.UUID) ([]*domain.ApplicationAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.ApplicationAnalysis{}
	for _, a := range r.analyses {
		if a.UserID == userID && (cvID == nil || a.CvID == *cvID) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAnalysisRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.analyses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.analyses, id)
	return nil
}

type stubAnalyzer struct {
	insights *domain.Insights
	err      error
	calls    int
}

func (s *stubAnalyzer) Analyze(context.Context, *domain.CvDocument, *domain.JobPosting, *domain.MatchResult) (*domain.Insights, error) {
	s.calls++
	return s.insights, s.err
}

var errBoom = errors.New("boom")
