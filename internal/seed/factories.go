package seed

import (
	"fmt"
	"strings"
	"time"

	"openwall/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds randomized domain entities for tests and development
// databases. Construction is in memory only; callers persist what they need.
type Factory struct {
	faker  *gofakeit.Faker
	nextID int64
}

// NewFactory creates a Factory with a fixed random seed so generated data is
// reproducible across runs.
func NewFactory(randSeed int64) *Factory {
	return &Factory{
		faker:  gofakeit.New(randSeed),
		nextID: time.Now().UnixMilli(),
	}
}

func (f *Factory) id() string {
	f.nextID++
	return fmt.Sprintf("%d", f.nextID)
}

// BuildUser constructs a random user. Overrides run after defaults.
func (f *Factory) BuildUser(overrides ...func(*models.User)) models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := strings.ToLower(first + last)
	u := models.User{
		ID:        f.id(),
		Name:      first + " " + last,
		Username:  username,
		Email:     username + "@" + f.faker.DomainName(),
		Bio:       f.faker.Sentence(8),
		Location:  f.faker.City(),
		CreatedAt: time.Now().UnixMilli(),
	}
	for _, o := range overrides {
		o(&u)
	}
	return u
}

// BuildPost constructs a random post authored by the given user. A hashtag is
// appended to the body so tag extraction has something to find.
func (f *Factory) BuildPost(author models.User, overrides ...func(*models.Post)) models.Post {
	tag := strings.ToLower(f.faker.BuzzWord())
	tag = strings.ReplaceAll(tag, " ", "")
	body := f.faker.Sentence(12) + " #" + tag
	p := models.Post{
		ID:             f.id(),
		UserID:         author.ID,
		AuthorName:     author.Name,
		AuthorUsername: author.Username,
		Body:           body,
		CreatedAt:      time.Now().UnixMilli() - int64(f.faker.Number(0, 86_400_000)),
		Visibility:     models.VisibilityPublic,
		Tags:           models.ExtractTags(body),
	}
	for _, o := range overrides {
		o(&p)
	}
	return p
}

// BuildComment constructs a random comment on the given post.
func (f *Factory) BuildComment(post models.Post, author models.User, overrides ...func(*models.Comment)) models.Comment {
	c := models.Comment{
		ID:             f.id(),
		PostID:         post.ID,
		UserID:         author.ID,
		AuthorName:     author.Name,
		AuthorUsername: author.Username,
		Body:           f.faker.Sentence(6),
		CreatedAt:      time.Now().UnixMilli(),
	}
	for _, o := range overrides {
		o(&c)
	}
	return c
}
