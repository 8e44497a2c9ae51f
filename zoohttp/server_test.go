package zoohttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/require"

	zoo "github.com/rezairanshahi021/zoo-challenge"
	"github.com/rezairanshahi021/zoo-challenge/zooredis"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := miniredis.RunT(t)
	t.Cleanup(func() { r.Close() })
	client, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: []string{r.Addr()}, DisableCache: true, ForceSingleClient: true})
	if err != nil {
		t.Fatalf("failed to create redis client: %+v", err)
	}
	t.Cleanup(client.Close)
	store := zooredis.NewStore("zootest:", client)
	engine := zoo.NewPlacementEngine(store).WithRetryPolicy(zoo.DefaultMaxRetries, time.Millisecond)
	return NewRouter(Services{
		Animals:    zoo.NewAnimalManager(store),
		Rooms:      zoo.NewRoomManager(store),
		Placer:     engine,
		Favourites: zoo.NewFavouriteRegister(store),
		Reporter:   zoo.NewReporter(store),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func createAnimal(t *testing.T, router *gin.Engine, title string, volume float64, category string) animalResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/animals",
		fmt.Sprintf(`{"title":%q,"volume":%g,"category":%q,"located":"2025-10-09"}`, title, volume, category))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp animalResponse
	decode(t, rec, &resp)
	return resp
}

func createRoom(t *testing.T, router *gin.Engine, title string, capacity float64) roomResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/rooms",
		fmt.Sprintf(`{"title":%q,"capacity":%g}`, title, capacity))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp roomResponse
	decode(t, rec, &resp)
	return resp
}

func TestAnimalLifecycle(t *testing.T) {
	router := newTestRouter(t)

	animal := createAnimal(t, router, "Rex", 10, "DOMESTIC")
	require.Equal(t, "Rex", animal.Title)
	require.Equal(t, "2025-10-09", animal.Located)

	rec := doJSON(t, router, http.MethodGet, "/api/animals/"+animal.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/animals/"+animal.ID,
		`{"title":"Rexy","located":"2025-11-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated animalResponse
	decode(t, rec, &updated)
	require.Equal(t, "Rexy", updated.Title)
	require.Equal(t, "2025-11-01", updated.Located)
	// volume and category stay immutable through updates
	require.Equal(t, 10.0, updated.Volume)

	rec = doJSON(t, router, http.MethodDelete, "/api/animals/"+animal.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/animals/"+animal.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var errResp errorResponse
	decode(t, rec, &errResp)
	require.Equal(t, "ANIMAL_NOT_FOUND", errResp.Code)
}

func TestAnimalValidation(t *testing.T) {
	router := newTestRouter(t)

	for name, body := range map[string]string{
		"short title":      `{"title":"R","volume":10,"category":"WILD","located":"2025-10-09"}`,
		"zero volume":      `{"title":"Rex","volume":0,"category":"WILD","located":"2025-10-09"}`,
		"bad category":     `{"title":"Rex","volume":10,"category":"FISH","located":"2025-10-09"}`,
		"bad located date": `{"title":"Rex","volume":10,"category":"WILD","located":"09-10-2025"}`,
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/animals", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestParseLocated(t *testing.T) {
	located, err := parseLocated("2025-10-09")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), located)

	for _, input := range []string{"", "09-10-2025", "2025-13-01", "not a date"} {
		_, err := parseLocated(input)
		require.Error(t, err, input)
	}
}

func TestRoomLifecycle(t *testing.T) {
	router := newTestRouter(t)

	room := createRoom(t, router, "Aviary", 30)
	require.Equal(t, "Aviary", room.Title)

	// duplicate titles are rejected case-insensitively
	rec := doJSON(t, router, http.MethodPost, "/api/rooms", `{"title":"aviary","capacity":10}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp errorResponse
	decode(t, rec, &errResp)
	require.Equal(t, "ROOM_IS_EXISTS", errResp.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/rooms/"+room.ID, `{"title":"Savannah"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/rooms", `{"title":"Aviary","capacity":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/rooms/"+room.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPlacementFlow(t *testing.T) {
	router := newTestRouter(t)

	room := createRoom(t, router, "Savannah", 30)
	animal := createAnimal(t, router, "Simba", 10, "WILD")

	rec := doJSON(t, router, http.MethodPatch, "/api/animals/"+animal.ID+"/placement",
		fmt.Sprintf(`{"room_id":%q}`, room.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var placed animalResponse
	decode(t, rec, &placed)
	require.NotNil(t, placed.RoomID)
	require.Equal(t, room.ID, *placed.RoomID)

	// the first resident pins the room category
	other := createAnimal(t, router, "Rex", 10, "DOMESTIC")
	rec = doJSON(t, router, http.MethodPatch, "/api/animals/"+other.ID+"/placement",
		fmt.Sprintf(`{"room_id":%q}`, room.ID))
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp errorResponse
	decode(t, rec, &errResp)
	require.Equal(t, "CATEGORY_MISMATCH", errResp.Code)

	// an occupied room cannot be deleted
	rec = doJSON(t, router, http.MethodDelete, "/api/rooms/"+room.ID, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	// neither can a placed animal
	rec = doJSON(t, router, http.MethodDelete, "/api/animals/"+animal.ID, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/animals/"+animal.ID+"/placement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var removed animalResponse
	decode(t, rec, &removed)
	require.Nil(t, removed.RoomID)

	rec = doJSON(t, router, http.MethodDelete, "/api/animals/"+animal.ID+"/placement", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &errResp)
	require.Equal(t, "ANIMAL_NOT_PLACED", errResp.Code)
}

func TestCapacityConflict(t *testing.T) {
	router := newTestRouter(t)

	room := createRoom(t, router, "Barn", 15)
	first := createAnimal(t, router, "Bella", 10, "DOMESTIC")
	second := createAnimal(t, router, "Rex", 10, "DOMESTIC")

	rec := doJSON(t, router, http.MethodPatch, "/api/animals/"+first.ID+"/placement",
		fmt.Sprintf(`{"room_id":%q}`, room.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/animals/"+second.ID+"/placement",
		fmt.Sprintf(`{"room_id":%q}`, room.ID))
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp errorResponse
	decode(t, rec, &errResp)
	require.Equal(t, "ROOM_IS_FULL", errResp.Code)
}

func TestListAnimalsByRoomEndpoint(t *testing.T) {
	router := newTestRouter(t)

	room := createRoom(t, router, "Aviary", 100)
	for _, title := range []string{"Charlie", "Alice", "Bob"} {
		animal := createAnimal(t, router, title, 10, "BIRD")
		rec := doJSON(t, router, http.MethodPatch, "/api/animals/"+animal.ID+"/placement",
			fmt.Sprintf(`{"room_id":%q}`, room.ID))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/animals/by-room/"+room.ID+"?page=0&size=2&sort=title", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page animalPageResponse
	decode(t, rec, &page)
	require.Equal(t, 3, page.TotalCount)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Animals, 2)
	require.Equal(t, "Alice", page.Animals[0].Title)

	rec = doJSON(t, router, http.MethodGet, "/api/animals/by-room/"+room.ID+"?sort=title&order=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	require.Equal(t, "Charlie", page.Animals[0].Title)
}

func TestFavouritesAndReport(t *testing.T) {
	router := newTestRouter(t)

	room := createRoom(t, router, "Aviary", 30)
	animal := createAnimal(t, router, "Tweety", 1, "BIRD")

	rec := doJSON(t, router, http.MethodPost, "/api/animals/"+animal.ID+"/favourites",
		fmt.Sprintf(`{"room_id":%q}`, room.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp animalResponse
	decode(t, rec, &resp)
	require.Equal(t, []string{room.ID}, resp.FavouriteRoomIDs)

	rec = doJSON(t, router, http.MethodPost, "/api/animals/"+animal.ID+"/favourites", `{"room_id":"missing"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/reports/favourite-rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report []favouriteRoomResponse
	decode(t, rec, &report)
	require.Len(t, report, 1)
	require.Equal(t, "Aviary", report[0].Title)
	require.Equal(t, int64(1), report[0].Count)

	rec = doJSON(t, router, http.MethodDelete, "/api/animals/"+animal.ID+"/favourites/"+room.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted animalResponse
	decode(t, rec, &deleted)
	require.Empty(t, deleted.FavouriteRoomIDs)
}
