package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/follows"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/listing"
	"Yatube/internal/core/pagecache"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
	"Yatube/internal/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDB backs every repository in these tests
type memDB struct {
	mu       sync.Mutex
	users    map[int64]*users.User
	groups   map[int64]*groups.Group
	posts    map[int64]*posts.Post
	comments []*posts.Comment
	follows  map[[2]int64]bool
	nextID   int64
	clock    time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[int64]*users.User{},
		groups:  map[int64]*groups.Group{},
		posts:   map[int64]*posts.Post{},
		follows: map[[2]int64]bool{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Minute)
	return db.clock
}

type memUsers struct{ *memDB }

func (r memUsers) Create(_ context.Context, u *users.User) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, users.ErrUsernameTaken
		}
	}
	u.ID, u.CreatedAt = r.id(), r.tick()
	r.users[u.ID] = u
	return u, nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

type memGroups struct{ *memDB }

func (r memGroups) Create(_ context.Context, g *groups.Group) (*groups.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID, g.CreatedAt = r.id(), r.tick()
	r.groups[g.ID] = g
	return g, nil
}

func (r memGroups) GetByID(_ context.Context, id int64) (*groups.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[id]; ok {
		return g, nil
	}
	return nil, groups.ErrGroupNotFound
}

func (r memGroups) GetBySlug(_ context.Context, slug string) (*groups.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, groups.ErrGroupNotFound
}

func (r memGroups) List(_ context.Context) ([]*groups.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*groups.Group
	for _, g := range r.groups {
		out = append(out, g)
	}
	return out, nil
}

func (r memGroups) Delete(_ context.Context, slug string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.groups {
		if g.Slug != slug {
			continue
		}
		var detached int64
		for _, p := range r.posts {
			if p.GroupID != nil && *p.GroupID == id {
				p.GroupID = nil
				detached++
			}
		}
		delete(r.groups, id)
		return detached, nil
	}
	return 0, groups.ErrGroupNotFound
}

type memPosts struct{ *memDB }

func (r memPosts) Create(_ context.Context, p *posts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID, p.CreatedAt = r.id(), r.tick()
	stored := *p
	r.posts[p.ID] = &stored
	return nil
}

func (r memPosts) GetByID(_ context.Context, id int64) (*posts.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, posts.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// view must be called with mu held
func (r memPosts) view(p *posts.Post) *posts.PostView {
	author := r.users[p.AuthorID]
	v := &posts.PostView{
		ID:        p.ID,
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
		Image:     p.Image,
		Author:    &posts.AuthorView{ID: author.ID, Username: author.Username},
	}
	if p.GroupID != nil {
		if g, ok := r.groups[*p.GroupID]; ok {
			v.Group = &posts.GroupRef{ID: g.ID, Slug: g.Slug, Title: g.Title}
		}
	}
	for _, c := range r.comments {
		if c.PostID == p.ID {
			v.CommentCount++
		}
	}
	return v
}

func (r memPosts) GetView(_ context.Context, id int64) (*posts.PostView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, posts.ErrNotFound
	}
	return r.view(p), nil
}

func (r memPosts) Update(_ context.Context, p *posts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok || stored.AuthorID != p.AuthorID {
		return posts.ErrNotFound
	}
	stored.Text, stored.GroupID, stored.Image = p.Text, p.GroupID, p.Image
	return nil
}

func (r memPosts) CreateComment(_ context.Context, c *posts.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[c.PostID]; !ok {
		return posts.ErrNotFound
	}
	c.ID, c.CreatedAt = r.id(), r.tick()
	r.comments = append(r.comments, c)
	return nil
}

func (r memPosts) ListComments(_ context.Context, postID int64) ([]*posts.CommentView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*posts.CommentView{}
	for _, c := range r.comments {
		if c.PostID == postID {
			author := r.users[c.AuthorID]
			out = append(out, &posts.CommentView{
				ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt,
				Author: &posts.AuthorView{ID: author.ID, Username: author.Username},
			})
		}
	}
	return out, nil
}

// matching must be called with mu held
func (r memPosts) matching(f listing.Filter) []*posts.PostView {
	var out []*posts.PostView
	for _, p := range r.posts {
		if f.GroupID != 0 && (p.GroupID == nil || *p.GroupID != f.GroupID) {
			continue
		}
		if f.AuthorID != 0 && p.AuthorID != f.AuthorID {
			continue
		}
		if f.FollowerID != 0 && !r.follows[[2]int64{f.FollowerID, p.AuthorID}] {
			continue
		}
		out = append(out, r.view(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memPosts) CountPosts(_ context.Context, f listing.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matching(f)), nil
}

func (r memPosts) ListPosts(_ context.Context, f listing.Filter, limit, offset int) ([]*posts.PostView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.matching(f)
	if offset >= len(all) {
		return []*posts.PostView{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type memFollows struct{ *memDB }

func (r memFollows) Create(_ context.Context, userID, authorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{userID, authorID}
	if r.follows[key] {
		return false, nil
	}
	r.follows[key] = true
	return true, nil
}

func (r memFollows) Delete(_ context.Context, userID, authorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{userID, authorID}
	existed := r.follows[key]
	delete(r.follows, key)
	return existed, nil
}

func (r memFollows) Exists(_ context.Context, userID, authorID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.follows[[2]int64{userID, authorID}], nil
}

const testOpsToken = "ops-secret"

type testApp struct {
	db       *memDB
	router   http.Handler
	sessions *middleware.SessionAuth
	cache    *pagecache.LRUCache
	posts    posts.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := newMemDB()

	templates, err := web.NewTemplates()
	require.NoError(t, err)
	pages := web.NewHandlers(templates, nil)

	userService := users.NewUserService(memUsers{db})
	groupService := groups.NewGroupService(memGroups{db}, nil)
	postService := posts.NewPostService(memPosts{db}, groupService, nil, nil)
	followService := follows.NewFollowService(memFollows{db}, userService, nil)
	listingService := listing.NewListingService(memPosts{db}, groupService, userService, followService)

	sessions := middleware.NewSessionAuth([]byte("0123456789abcdef0123456789abcdef"), false, userService)
	cache := pagecache.New(16, nil)

	router := NewRouter(Deps{
		Users:     userService,
		Groups:    groupService,
		Posts:     postService,
		Follows:   followService,
		Listing:   listingService,
		Sessions:  sessions,
		Cache:     cache,
		Pages:     pages,
		UploadDir: t.TempDir(),
		OpsToken:  testOpsToken,
		IndexTTL:  pagecache.DefaultTTL,
		MaxUpload: 1 << 20,
	})

	return &testApp{db: db, router: router, sessions: sessions, cache: cache, posts: memPosts{db}}
}

func (a *testApp) addUser(t *testing.T, username string) *users.User {
	t.Helper()
	u, err := memUsers{a.db}.Create(context.Background(), &users.User{Username: username, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func (a *testApp) addPost(t *testing.T, author *users.User, text string) *posts.Post {
	t.Helper()
	p := &posts.Post{AuthorID: author.ID, Text: text}
	require.NoError(t, a.posts.Create(context.Background(), p))
	return p
}

// sessionCookie returns a valid session cookie for user
func (a *testApp) sessionCookie(t *testing.T, user *users.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, a.sessions.StartSession(rec, httptest.NewRequest(http.MethodPost, "/auth/login/", nil), user))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (a *testApp) do(req *http.Request, as *http.Cookie) *httptest.ResponseRecorder {
	if as != nil {
		req.AddCookie(as)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex_CachedWithinTTL(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	app.addPost(t, leo, "first post")

	first := app.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Contains(t, first.Body.String(), "first post")

	app.addPost(t, leo, "second post")

	second := app.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes(), "cached response is byte-identical")
	assert.NotContains(t, second.Body.String(), "second post")

	app.cache.Clear()

	third := app.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.NotEqual(t, first.Body.Bytes(), third.Body.Bytes())
	assert.Contains(t, third.Body.String(), "second post")
}

func TestIndex_CacheSharedAcrossViewers(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	app.addPost(t, leo, "hello")

	anon := app.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, "MISS", anon.Header().Get("X-Cache"))

	logged := app.do(httptest.NewRequest(http.MethodGet, "/", nil), app.sessionCookie(t, leo))
	assert.Equal(t, "HIT", logged.Header().Get("X-Cache"))
	assert.Contains(t, logged.Body.String(), `href="/create/"`, "layout is rendered for the viewer")
	assert.NotContains(t, anon.Body.String(), `href="/create/"`)
}

func TestAnonymousComment_RedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	post := app.addPost(t, leo, "hello")

	path := "/posts/" + itoa(post.ID) + "/comment/"
	rec := app.do(postForm(path, url.Values{"text": {"nice"}}), nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next="+path, rec.Header().Get("Location"))
	assert.Empty(t, app.db.comments)
}

func TestComment_Authenticated(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	anna := app.addUser(t, "anna")
	post := app.addPost(t, leo, "hello")
	path := "/posts/" + itoa(post.ID) + "/"

	rec := app.do(postForm(path+"comment/", url.Values{"text": {"nice post"}}), app.sessionCookie(t, anna))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, path, rec.Header().Get("Location"))

	detail := app.do(httptest.NewRequest(http.MethodGet, path, nil), nil)
	assert.Contains(t, detail.Body.String(), "nice post")

	empty := app.do(postForm(path+"comment/", url.Values{"text": {"  "}}), app.sessionCookie(t, anna))
	assert.Equal(t, http.StatusOK, empty.Code, "empty comment re-renders the page")
	assert.Contains(t, empty.Body.String(), "text must not be empty")

	missing := app.do(postForm("/posts/9999/comment/", url.Values{"text": {"x"}}), app.sessionCookie(t, anna))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestEdit_NonAuthorRedirectedToDetail(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	anna := app.addUser(t, "anna")
	post := app.addPost(t, leo, "original")
	detail := "/posts/" + itoa(post.ID) + "/"

	get := app.do(httptest.NewRequest(http.MethodGet, detail+"edit/", nil), app.sessionCookie(t, anna))
	assert.Equal(t, http.StatusFound, get.Code)
	assert.Equal(t, detail, get.Header().Get("Location"))

	submit := app.do(postForm(detail+"edit/", url.Values{"text": {"hijacked"}}), app.sessionCookie(t, anna))
	assert.Equal(t, http.StatusFound, submit.Code)
	assert.Equal(t, detail, submit.Header().Get("Location"))

	stored, err := app.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
}

func TestEdit_Author(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	post := app.addPost(t, leo, "original")
	detail := "/posts/" + itoa(post.ID) + "/"

	form := app.do(httptest.NewRequest(http.MethodGet, detail+"edit/", nil), app.sessionCookie(t, leo))
	assert.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), "original")

	rec := app.do(postForm(detail+"edit/", url.Values{"text": {"edited"}}), app.sessionCookie(t, leo))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, detail, rec.Header().Get("Location"))

	stored, err := app.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.Text)
	assert.Equal(t, post.CreatedAt, stored.CreatedAt)
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	cats, err := memGroups{app.db}.Create(context.Background(), &groups.Group{Slug: "cats", Title: "Cats"})
	require.NoError(t, err)

	rec := app.do(postForm("/create/", url.Values{"text": {"cats are great"}, "group": {itoa(cats.ID)}}), app.sessionCookie(t, leo))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))

	group := app.do(httptest.NewRequest(http.MethodGet, "/group/cats/", nil), nil)
	assert.Contains(t, group.Body.String(), "cats are great")

	invalid := app.do(postForm("/create/", url.Values{"text": {""}, "group": {"424242"}}), app.sessionCookie(t, leo))
	assert.Equal(t, http.StatusOK, invalid.Code)
	assert.Contains(t, invalid.Body.String(), "text must not be empty")

	anon := app.do(httptest.NewRequest(http.MethodGet, "/create/", nil), nil)
	assert.Equal(t, http.StatusFound, anon.Code)
	assert.Equal(t, "/auth/login/?next=/create/", anon.Header().Get("Location"))
}

func TestFollowFeed(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	anna := app.addUser(t, "anna")
	ivan := app.addUser(t, "ivan")

	rec := app.do(httptest.NewRequest(http.MethodGet, "/profile/leo/follow/", nil), app.sessionCookie(t, anna))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))

	app.addPost(t, leo, "fresh from leo")

	feed := app.do(httptest.NewRequest(http.MethodGet, "/follow/", nil), app.sessionCookie(t, anna))
	assert.Contains(t, feed.Body.String(), "fresh from leo")

	other := app.do(httptest.NewRequest(http.MethodGet, "/follow/", nil), app.sessionCookie(t, ivan))
	assert.NotContains(t, other.Body.String(), "fresh from leo")

	profile := app.do(httptest.NewRequest(http.MethodGet, "/profile/leo/", nil), app.sessionCookie(t, anna))
	assert.Contains(t, profile.Body.String(), "/profile/leo/unfollow/")

	app.do(httptest.NewRequest(http.MethodGet, "/profile/leo/unfollow/", nil), app.sessionCookie(t, anna))
	feed = app.do(httptest.NewRequest(http.MethodGet, "/follow/", nil), app.sessionCookie(t, anna))
	assert.NotContains(t, feed.Body.String(), "fresh from leo")

	ghost := app.do(httptest.NewRequest(http.MethodGet, "/profile/ghost/follow/", nil), app.sessionCookie(t, anna))
	assert.Equal(t, http.StatusNotFound, ghost.Code)
}

func TestNotFoundPages(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/no/such/page/", "/group/unknown/", "/profile/ghost/", "/posts/12345/"} {
		rec := app.do(httptest.NewRequest(http.MethodGet, path, nil), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Page not found", path)
	}
}

func TestOpsCacheFlush(t *testing.T) {
	app := newTestApp(t)
	app.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, 1, app.cache.Stats().Entries)

	denied := app.do(httptest.NewRequest(http.MethodPost, "/internal/cache/flush", nil), nil)
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Equal(t, 1, app.cache.Stats().Entries)

	req := httptest.NewRequest(http.MethodPost, "/internal/cache/flush", nil)
	req.Header.Set("X-Ops-Token", testOpsToken)
	ok := app.do(req, nil)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, 0, app.cache.Stats().Entries)
}

func TestPagination_ClampsOutOfRange(t *testing.T) {
	app := newTestApp(t)
	leo := app.addUser(t, "leo")
	for i := 0; i < 16; i++ {
		app.addPost(t, leo, "post")
	}

	rec := app.do(httptest.NewRequest(http.MethodGet, "/profile/leo/?page=99", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, strings.Count(rec.Body.String(), "<article>"))

	rec = app.do(httptest.NewRequest(http.MethodGet, "/profile/leo/?page=abc", nil), nil)
	assert.Equal(t, 10, strings.Count(rec.Body.String(), "<article>"))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestAboutPages(t *testing.T) {
	app := newTestApp(t)

	author := app.do(httptest.NewRequest(http.MethodGet, "/about/author/", nil), nil)
	assert.Equal(t, http.StatusOK, author.Code)
	assert.Contains(t, author.Body.String(), "About the author")

	tech := app.do(httptest.NewRequest(http.MethodGet, "/about/tech/", nil), nil)
	assert.Equal(t, http.StatusOK, tech.Code)
	assert.Contains(t, tech.Body.String(), "Technologies")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
