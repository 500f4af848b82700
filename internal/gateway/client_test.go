package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectlab/prospect/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second, slog.Default())
}

func TestCompanies_BuildsQueryAndDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company", r.URL.Path)
		assert.Equal(t, "software companies in Berlin", r.URL.Query().Get("query"))
		assert.Equal(t, "linkedin", r.URL.Query().Get("source"))
		assert.Equal(t, "user@example.com", r.URL.Query().Get("user"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"h1","data":[{"id":"c1","name":"Acme"},{"id":"c2","name":"Globex"}]}`))
	})

	result, err := client.Companies(context.Background(), "software companies in Berlin", models.SourceLinkedIn, "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, "h1", result.ID)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, "Acme", result.Data[0].Name)
}

func TestEmployees_JoinsIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employee", r.URL.Path)
		assert.Equal(t, "c1,c2", r.URL.Query().Get("ids"))

		w.Write([]byte(`{"c1":[{"id":"e1","name":"Alice","title":"CTO","linkedin":"alice","company":"c1"}],"c2":[]}`))
	})

	result, err := client.Employees(context.Background(), "user@example.com", []string{"c1", "c2"})
	require.NoError(t, err)

	assert.Len(t, result, 2)
	assert.Equal(t, "Alice", result["c1"][0].Name)
	assert.True(t, result.Unlocked("c2"))
}

func TestContact_DecodesPartialFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "e1", r.URL.Query().Get("id"))
		w.Write([]byte(`{"location":"Berlin","mail":"alice@acme.example"}`))
	})

	update, err := client.Contact(context.Background(), "user@example.com", "e1")
	require.NoError(t, err)

	assert.Equal(t, "Berlin", *update.Location)
	assert.Nil(t, update.Phone)
	assert.False(t, update.Complete())
}

func TestHistory_ReturnsCompanies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history", r.URL.Path)
		assert.Equal(t, "h1", r.URL.Query().Get("id"))
		w.Write([]byte(`[{"id":"c1","name":"Acme"}]`))
	})

	rows, err := client.History(context.Background(), "user@example.com", "h1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilesToKeywords_SendsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/file2keyword", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "user@example.com", r.FormValue("user"))

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "brochure.pdf", files[0].Filename)

		w.Write([]byte(`["industrial pumps","valves"]`))
	})

	keywords, err := client.FilesToKeywords(context.Background(), "user@example.com", []File{
		{Name: "brochure.pdf", Reader: strings.NewReader("%PDF-1.4 fake")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"industrial pumps", "valves"}, keywords)
}

func TestGenerateMail_EncodesFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genmail", r.URL.Path)
		assert.Equal(t, "Alice", r.URL.Query().Get("name"))
		w.Write([]byte(`{"content":"Dear Alice, ..."}`))
	})

	draft, err := client.GenerateMail(context.Background(), map[string]string{"name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Alice, ...", draft.Content)
}

func TestGet_NonOKStatusIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Companies(context.Background(), "anything here", models.SourceKompass, "u")
	assert.Error(t, err)
}

func TestGet_NonJSONBodyIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>upstream error page</html>"))
	})

	_, err := client.URLToKeywords(context.Background(), "https://acme.example", "u")
	assert.Error(t, err)
}
