package platform_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/socialhub/internal/adapter/driven/platform"
	"github.com/ericfisherdev/socialhub/internal/domain/model"
)

// validDrafts returns one well-formed draft per platform, each carrying
// "good-token" in its bearer field.
func validDrafts() []model.CredentialDraft {
	var drafts []model.CredentialDraft
	for _, p := range model.AllPlatforms() {
		fields := make(map[string]string)
		for _, f := range p.RequiredFields() {
			fields[f] = "value-" + f
		}
		fields[p.BearerField()] = "good-token"
		drafts = append(drafts, model.CredentialDraft{Platform: p, DisplayName: string(p), SecretFields: fields})
	}
	return drafts
}

// newTestDispatcher points every endpoint's BaseURL at server, keeping each
// platform's validation path.
func newTestDispatcher(t *testing.T, server *httptest.Server) *platform.Dispatcher {
	t.Helper()

	endpoints := platform.DefaultEndpoints()
	for p, ep := range endpoints {
		ep.BaseURL = server.URL + "/" + string(p)
		endpoints[p] = ep
	}
	return platform.NewDefaultDispatcher(endpoints, platform.NewHTTPClient(5*time.Second), nil)
}

func TestDispatcher_Validate_UsesPlatformEndpoint(t *testing.T) {
	wantPaths := map[model.Platform]string{
		model.PlatformYouTube:   "/youtube/channels?part=id&mine=true",
		model.PlatformInstagram: "/instagram/me?fields=id,username",
		model.PlatformTikTok:    "/tiktok/user/info/",
		model.PlatformTwitter:   "/twitter/users/me",
		model.PlatformSnapchat:  "/snapchat/me",
	}

	var gotPath, gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	d := newTestDispatcher(t, server)

	for _, draft := range validDrafts() {
		t.Run(string(draft.Platform), func(t *testing.T) {
			assert.True(t, d.Validate(context.Background(), draft))
			assert.Equal(t, wantPaths[draft.Platform], gotPath)
			assert.Equal(t, "Bearer good-token", gotAuth)
			assert.Equal(t, "application/json", gotAccept)
		})
	}
}

func TestDispatcher_Validate_NonSuccessIsFalse(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		d := newTestDispatcher(t, server)
		for _, draft := range validDrafts() {
			assert.False(t, d.Validate(context.Background(), draft), "status %d platform %s", status, draft.Platform)
		}
		server.Close()
	}
}

func TestDispatcher_Validate_NetworkFailureIsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	d := newTestDispatcher(t, server)
	server.Close() // Connections now fail.

	for _, draft := range validDrafts() {
		assert.False(t, d.Validate(context.Background(), draft))
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("simulated network failure")
}

func TestDispatcher_Validate_TransportRejectsIsFalse(t *testing.T) {
	d := platform.NewDefaultDispatcher(platform.DefaultEndpoints(), &http.Client{Transport: failingTransport{}}, nil)

	for _, draft := range validDrafts() {
		assert.False(t, d.Validate(context.Background(), draft))
	}
}

func TestDispatcher_Validate_MalformedDraftSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	d := newTestDispatcher(t, server)

	tests := []struct {
		name  string
		draft model.CredentialDraft
	}{
		{
			name:  "unknown platform",
			draft: model.CredentialDraft{Platform: "myspace", SecretFields: map[string]string{"accessToken": "x"}},
		},
		{
			name:  "missing required field",
			draft: model.CredentialDraft{Platform: model.PlatformInstagram, SecretFields: map[string]string{"accessToken": "x"}},
		},
		{
			name: "extra field",
			draft: model.CredentialDraft{Platform: model.PlatformInstagram, SecretFields: map[string]string{
				"accessToken": "x", "userId": "1", "refreshToken": "r",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, d.Validate(context.Background(), tt.draft))
		})
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestDispatcher_Validate_NoRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	d := newTestDispatcher(t, server)

	draft := validDrafts()[0]
	assert.False(t, d.Validate(context.Background(), draft))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatcher_Validate_CachedBodyStillAsksPlatform(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Cache-Control", "max-age=3600")
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	t.Cleanup(server.Close)
	d := newTestDispatcher(t, server)

	draft := validDrafts()[3] // twitter
	assert.True(t, d.Validate(context.Background(), draft))
	assert.True(t, d.Validate(context.Background(), draft))

	revoked := draft
	revoked.SecretFields = map[string]string{}
	for k, v := range draft.SecretFields {
		revoked.SecretFields[k] = v
	}
	revoked.SecretFields[model.FieldBearerToken] = "revoked-token"
	assert.False(t, d.Validate(context.Background(), revoked))

	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatcher_Validate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	d := newTestDispatcher(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, d.Validate(ctx, validDrafts()[0]))
}

func TestDispatcher_AuthorizationURL(t *testing.T) {
	d := platform.NewDefaultDispatcher(platform.DefaultEndpoints(), nil, nil)

	for p, ep := range platform.DefaultEndpoints() {
		t.Run(string(p), func(t *testing.T) {
			raw := d.AuthorizationURL(string(p), "client-123", "http://localhost:5173/api-callback")
			require.NotEmpty(t, raw)
			require.True(t, strings.HasPrefix(raw, ep.AuthURL+"?"), raw)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			q := u.Query()

			assert.Equal(t, "client-123", q.Get("client_id"))
			assert.Equal(t, "http://localhost:5173/api-callback", q.Get("redirect_uri"))
			assert.Equal(t, "code", q.Get("response_type"))
			assert.Equal(t, strings.Join(ep.Scopes, " "), q.Get("scope"))
			assert.Len(t, q, 4)

			// Spaces between scopes are encoded, never literal.
			assert.NotContains(t, u.RawQuery, " ")
		})
	}
}

func TestDispatcher_AuthorizationURL_EmptyRedirect(t *testing.T) {
	d := platform.NewDefaultDispatcher(platform.DefaultEndpoints(), nil, nil)

	raw := d.AuthorizationURL("twitter", "", "")
	require.NotEmpty(t, raw)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.True(t, q.Has("redirect_uri"))
	assert.True(t, q.Has("client_id"))
	assert.Equal(t, "", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Len(t, q["redirect_uri"], 1)
	assert.Len(t, q, 4)
}

func TestDispatcher_AuthorizationURL_Unknown(t *testing.T) {
	d := platform.NewDefaultDispatcher(platform.DefaultEndpoints(), nil, nil)

	assert.Equal(t, "", d.AuthorizationURL("myspace", "client", "http://localhost/cb"))
	assert.Equal(t, "", d.AuthorizationURL("", "client", "http://localhost/cb"))
	assert.Equal(t, "", d.AuthorizationURL("YouTube", "client", "http://localhost/cb"))
}

func TestDispatcher_Scopes(t *testing.T) {
	d := platform.NewDefaultDispatcher(platform.DefaultEndpoints(), nil, nil)

	scopes := d.Scopes(model.PlatformTwitter)
	assert.Equal(t, []string{"tweet.read", "tweet.write", "users.read", "offline.access"}, scopes)

	// Returned slices are copies.
	scopes[0] = "mutated"
	assert.Equal(t, "tweet.read", d.Scopes(model.PlatformTwitter)[0])

	assert.Nil(t, d.Scopes("myspace"))
}

func TestDispatcher_Describe(t *testing.T) {
	d := platform.NewDefaultDispatcher(platform.DefaultEndpoints(), nil, nil)

	for p, ep := range platform.DefaultEndpoints() {
		name, description := d.Describe(p)
		assert.Equal(t, ep.Name, name, "platform %s", p)
		assert.Equal(t, ep.Description, description, "platform %s", p)
		assert.NotEmpty(t, name)
		assert.NotEmpty(t, description)
	}

	name, description := d.Describe("myspace")
	assert.Empty(t, name)
	assert.Empty(t, description)
}

type stubClient struct {
	platform model.Platform
	token    string
}

func (s *stubClient) Platform() model.Platform { return s.platform }
func (s *stubClient) Validate(_ context.Context, token string) bool {
	s.token = token
	return true
}
func (s *stubClient) AuthURL(clientID, _ string) string { return "stub://" + clientID }
func (s *stubClient) Scopes() []string                { return []string{"stub"} }
func (s *stubClient) Describe() (string, string)       { return "Stub API", "stubbed" }

func TestDispatcher_Register(t *testing.T) {
	d := platform.NewDispatcher(nil)
	stub := &stubClient{platform: model.PlatformTwitter}
	d.Register(stub)

	draft := validDrafts()[3]
	require.Equal(t, model.PlatformTwitter, draft.Platform)

	assert.True(t, d.Validate(context.Background(), draft))
	assert.Equal(t, "good-token", stub.token)
	assert.Equal(t, "stub://abc", d.AuthorizationURL("twitter", "abc", ""))
	assert.Equal(t, "", d.AuthorizationURL("youtube", "abc", ""))

	name, _ := d.Describe(model.PlatformTwitter)
	assert.Equal(t, "Stub API", name)
}
