package profile

import (
	"context"
	"io"
	"log"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

const (
	birthdayLayout = "Jan 2, 2006"
	birthdayUnset  = "not set"
)

// Profile is the display form of the logged-in member.
type Profile struct {
	Account  string        `json:"account"`
	Name     string        `json:"name"`
	Age      int           `json:"age"`
	Birthday string        `json:"birthday"`
	Email    string        `json:"email"`
	Gender   domain.Gender `json:"gender"`
	Image    []byte        `json:"-"`
}

func (p Profile) HasImage() bool {
	return len(p.Image) > 0
}

type memberSource interface {
	Member(ctx context.Context) (*domain.Member, error)
}

type imageLoader interface {
	Load(ctx context.Context, path string) ([]byte, bool, error)
}

// Loader fetches the current member off the caller's goroutine and keeps the last
// successfully loaded profile. A failed fetch leaves the published profile as it was.
type Loader struct {
	members memberSource
	images  imageLoader
	logger  *log.Logger
	sfg     singleflight.Group

	mu      sync.RWMutex
	current *Profile
	// gen is bumped by Reset; fetches started under an older gen are not published.
	gen uint64
}

func NewLoader(members memberSource, images imageLoader, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Loader{members: members, images: images, logger: logger}
}

// Current returns the last published profile.
func (l *Loader) Current() (Profile, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current == nil {
		return Profile{}, false
	}
	return *l.current, true
}

// Refresh starts a background fetch. The returned channel receives the fetch error, or nil
// once the new profile is published.
func (l *Loader) Refresh(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	bg := context.WithoutCancel(ctx)
	go func() {
		_, err := l.Load(bg)
		done <- err
	}()
	return done
}

// Load fetches and publishes the profile. Concurrent calls share one fetch. A fetch that
// was started before the last Reset returns its result but does not publish it.
func (l *Loader) Load(ctx context.Context) (Profile, error) {
	l.mu.RLock()
	gen := l.gen
	l.mu.RUnlock()

	v, err, _ := l.sfg.Do("profile:"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		m, err := l.members.Member(ctx)
		if err != nil {
			return nil, err
		}
		p := fromMember(*m)
		p.Image = l.loadImage(ctx, m)
		return p, nil
	})
	if err != nil {
		l.logger.Printf("profile: load error=%v", err)
		return Profile{}, err
	}
	p := v.(Profile)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		l.logger.Printf("profile: discard stale load account=%s", p.Account)
		return p, nil
	}
	l.current = &p
	return p, nil
}

// Reset drops the published profile, e.g. after logout, and invalidates in-flight fetches.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.current = nil
	l.gen++
	l.mu.Unlock()
}

func (l *Loader) loadImage(ctx context.Context, m *domain.Member) []byte {
	if m.ProfileImagePath == "" || l.images == nil {
		return nil
	}
	data, ok, err := l.images.Load(ctx, m.ProfileImagePath)
	if err != nil {
		l.logger.Printf("profile: load image account=%s path=%s error=%v", m.Account, m.ProfileImagePath, err)
		return nil
	}
	if !ok {
		return nil
	}
	return data
}

func fromMember(m domain.Member) Profile {
	birthday := birthdayUnset
	if m.Birthday != nil {
		birthday = m.Birthday.Format(birthdayLayout)
	}
	return Profile{
		Account:  m.Account,
		Name:     m.Name,
		Age:      m.Age,
		Birthday: birthday,
		Email:    m.Email,
		Gender:   m.Gender,
	}
}
