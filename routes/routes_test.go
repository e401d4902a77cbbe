package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"labstock/app"
	"labstock/db"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = sqlDB.Close() })

	// no redis in tests: bearer tokens only, last-seen throttle off
	a := &app.App{
		Router: gin.New(),
		DB:     gdb,
		Config: app.Config{
			JWTSecret: "test-secret",
			JWTTTL:    time.Hour,
		},
	}
	RegisterRoutes(a.Router, a)
	return a
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func register(t *testing.T, r http.Handler, email string) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(t, w)["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

// Walks a team through its life: the creator becomes a full member, a user
// added with only the item flag can manage items but nothing else, and team
// detail stays owner-only.
func TestTeamPermissionScenario(t *testing.T) {
	a := newTestApp(t)
	r := a.Router

	register(t, r, "alice@example.com")
	register(t, r, "bob@example.com")
	register(t, r, "carol@example.com")
	alice := login(t, r, "alice@example.com")
	bob := login(t, r, "bob@example.com")

	// alice creates the team
	w := do(t, r, http.MethodPost, "/api/teams", alice, gin.H{"name": "optics"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	teamID, _ := decode(t, w)["id"].(string)
	require.NotEmpty(t, teamID)

	// alice is a member of her own team with every flag
	w = do(t, r, http.MethodGet, "/api/teams/"+teamID+"/members", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members, _ := decode(t, w)["members"].([]any)
	require.Len(t, members, 1)
	self := members[0].(map[string]any)
	assert.Equal(t, true, self["canEditLabs"])
	assert.Equal(t, true, self["canEditItems"])
	assert.Equal(t, true, self["canEditUsers"])

	// bob joins with can_edit_items only
	w = do(t, r, http.MethodPost, "/api/teams/"+teamID+"/members", alice, gin.H{
		"email": "bob@example.com", "canEditItems": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// bob can create items
	w = do(t, r, http.MethodPost, "/api/teams/"+teamID+"/items", bob, gin.H{"name": "oscilloscope"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID, _ := decode(t, w)["id"].(string)

	// but not labs
	w = do(t, r, http.MethodPost, "/api/teams/"+teamID+"/labs", bob, gin.H{"place": "B2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// and not members
	w = do(t, r, http.MethodPost, "/api/teams/"+teamID+"/members", bob, gin.H{
		"email": "carol@example.com",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// team detail is owner-or-superuser territory, membership is not enough
	w = do(t, r, http.MethodGet, "/api/teams/"+teamID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodGet, "/api/teams/"+teamID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// the member listing is open to any member
	w = do(t, r, http.MethodGet, "/api/teams/"+teamID+"/members", bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// alice provisions a lab, bob borrows and returns the item through it
	w = do(t, r, http.MethodPost, "/api/teams/"+teamID+"/labs", alice, gin.H{"place": "B2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	labID, _ := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/api/items/"+itemID+"/borrow", bob, gin.H{"labId": labID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	recID, _ := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/api/borrows/"+recID+"/return", bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the return is terminal
	w = do(t, r, http.MethodPost, "/api/borrows/"+recID+"/return", bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// bob sees his ledger
	w = do(t, r, http.MethodGet, "/api/me/borrows?status=returned", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestAuthGuards(t *testing.T) {
	a := newTestApp(t)
	r := a.Router

	// no token at all
	w := do(t, r, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// garbage token
	w = do(t, r, http.MethodGet, "/api/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// wrong credentials are a 401, and the body does not leak which half failed
	register(t, r, "alice@example.com")
	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrongwrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wUnknown := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "wrongwrong",
	})
	assert.Equal(t, w.Body.String(), wUnknown.Body.String())
}

func TestSuperuserAdmin(t *testing.T) {
	a := newTestApp(t)
	r := a.Router

	register(t, r, "root@example.com")
	register(t, r, "alice@example.com")

	// promote root directly; the register endpoint never grants superuser
	repo := db.NewRepo(a.DB)
	u, err := repo.FindUserByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	_, err = repo.UpdateUser(context.Background(), u.ID, map[string]any{"is_superuser": true})
	require.NoError(t, err)

	root := login(t, r, "root@example.com")
	alice := login(t, r, "alice@example.com")

	// plain users are locked out of the admin surface
	w := do(t, r, http.MethodGet, "/api/users", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/api/users", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total"])

	// superusers see every team without membership
	wTeam := do(t, r, http.MethodPost, "/api/teams", alice, gin.H{"name": "optics"})
	require.Equal(t, http.StatusCreated, wTeam.Code)
	teamID, _ := decode(t, wTeam)["id"].(string)
	w = do(t, r, http.MethodGet, "/api/teams/"+teamID, root, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/api/teams", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodGet, "/api/teams", root, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// deleting yourself is refused
	su, err := repo.FindUserByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	w = do(t, r, http.MethodDelete, "/api/users/"+su.ID, root, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
