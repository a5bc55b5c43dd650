package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	handler "github.com/samirrijal/campusnav/internal/adapters/http"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

// ---- Mocks ----

type mockStore struct {
	listFn func(ctx context.Context) ([]domain.Building, error)
}

func (m *mockStore) List(ctx context.Context) ([]domain.Building, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return campusBuildings(), nil
}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(ctx context.Context) error { return m.err }

// ---- Fixtures ----

func rect(minLat, minLon, maxLat, maxLon float64) []domain.Coordinate {
	return []domain.Coordinate{
		{Lat: minLat, Lon: minLon},
		{Lat: minLat, Lon: maxLon},
		{Lat: maxLat, Lon: maxLon},
		{Lat: maxLat, Lon: minLon},
	}
}

func campusBuildings() []domain.Building {
	return []domain.Building{
		{ID: "H", Name: "Hall Building", Address: "1455 De Maisonneuve Blvd. W.", Boundaries: rect(45.4968, -73.5795, 45.4977, -73.5783)},
		{ID: "EV", Name: "EV Building", Address: "1515 St. Catherine St. W.", Boundaries: rect(45.4952, -73.5783, 45.4962, -73.5771)},
		{ID: "CC", Name: "Central Building", Address: "7141 Sherbrooke St. W.", Boundaries: rect(45.4578, -73.6410, 45.4586, -73.6399)},
	}
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	buildings := usecases.NewBuildingService(&mockStore{}, nil)
	d := &handler.Dependencies{
		Buildings:  buildings,
		Directions: usecases.NewDirectionsService(buildings),
		Shuttle:    usecases.NewShuttleService(nil, newMockCache()),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func withStore(store *mockStore) func(*handler.Dependencies) {
	return func(d *handler.Dependencies) {
		d.Buildings = usecases.NewBuildingService(store, nil)
		d.Directions = usecases.NewDirectionsService(d.Buildings)
	}
}

func get(t *testing.T, app *fiber.App, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

// ---- Building handler tests ----

func TestListBuildings_Success(t *testing.T) {
	app := setupApp(makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/buildings", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Building `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 3 || len(result.Data) != 3 {
		t.Fatalf("expected 3 buildings, got %d (total %d)", len(result.Data), result.Pagination.Total)
	}
	if result.Data[0].Name != "Hall Building" || len(result.Data[0].Boundaries) != 4 {
		t.Errorf("unexpected first building %+v", result.Data[0])
	}
}

func TestListBuildings_PaginationAndLinkHeader(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/buildings?offset=1&limit=1", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Building `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
		} `json:"pagination"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data) != 1 || result.Data[0].Name != "EV Building" {
		t.Errorf("expected EV Building page, got %+v", result.Data)
	}
	if result.Pagination.Offset != 1 || result.Pagination.Limit != 1 {
		t.Errorf("unexpected pagination %+v", result.Pagination)
	}

	link := resp.Header.Get("Link")
	for _, rel := range []string{`rel="first"`, `rel="prev"`, `rel="next"`, `rel="last"`} {
		if !strings.Contains(link, rel) {
			t.Errorf("expected %s in Link header, got %s", rel, link)
		}
	}
}

func TestListBuildings_StoreError(t *testing.T) {
	app := setupApp(makeDeps(withStore(&mockStore{listFn: func(ctx context.Context) ([]domain.Building, error) {
		return nil, errors.New("db down")
	}})))

	status, body := get(t, app, "/v1/buildings")
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
	if body["code"] != "internal_error" {
		t.Errorf("expected internal_error, got %v", body["code"])
	}
	if strings.Contains(body["message"].(string), "db down") {
		t.Error("internal error leaked to client")
	}
}

func TestMarkers_Success(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/buildings/markers", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data []domain.BuildingMarker `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(result.Data))
	}
	hall := result.Data[0].Centroid
	if math.Abs(hall.Lat-45.49725) > 1e-9 || math.Abs(hall.Lon+73.5789) > 1e-9 {
		t.Errorf("unexpected Hall centroid %+v", hall)
	}
}

func TestSearchBuildings(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := get(t, app, "/v1/buildings/search"); status != 400 {
		t.Errorf("expected 400 for missing q, got %d", status)
	}
	if status, _ := get(t, app, "/v1/buildings/search?q="+strings.Repeat("a", 201)); status != 400 {
		t.Errorf("expected 400 for long q, got %d", status)
	}

	status, body := get(t, app, "/v1/buildings/search?q=sherbrooke")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	data := body["data"].([]interface{})
	if len(data) != 1 || data[0].(map[string]interface{})["name"] != "Central Building" {
		t.Errorf("expected Central Building, got %v", data)
	}

	_, body = get(t, app, "/v1/buildings/search?q=library")
	if data := body["data"].([]interface{}); len(data) != 0 {
		t.Errorf("expected empty array, got %v", data)
	}
}

func TestNearbyBuildings(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := get(t, app, "/v1/buildings/nearby?lat=45.4953"); status != 400 {
		t.Errorf("expected 400 for missing lon, got %d", status)
	}
	if status, _ := get(t, app, "/v1/buildings/nearby?lat=45.4953&lon=-73.5785&radius=0"); status != 400 {
		t.Errorf("expected 400 for zero radius, got %d", status)
	}
	if status, _ := get(t, app, "/v1/buildings/nearby?lat=45.4953&lon=-73.5785&radius=20000"); status != 400 {
		t.Errorf("expected 400 for large radius, got %d", status)
	}
	if status, _ := get(t, app, "/v1/buildings/nearby?lat=95&lon=-73.5785"); status != 400 {
		t.Errorf("expected 400 for out of range latitude, got %d", status)
	}

	status, body := get(t, app, "/v1/buildings/nearby?lat=45.4953534&lon=-73.578549")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	data := body["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 nearby buildings, got %d", len(data))
	}
	first := data[0].(map[string]interface{})["building"].(map[string]interface{})
	if first["name"] != "EV Building" {
		t.Errorf("expected EV Building first, got %v", first["name"])
	}
}

func TestEnclosingBuilding(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := get(t, app, "/v1/buildings/enclosing?lat=45.4970&lon=-73.5790")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	b := body["building"].(map[string]interface{})
	if b["name"] != "Hall Building" {
		t.Errorf("expected Hall Building, got %v", b["name"])
	}
	c := body["centroid"].(map[string]interface{})
	if math.Abs(c["latitude"].(float64)-45.49725) > 1e-9 {
		t.Errorf("unexpected centroid %v", c)
	}

	status, body = get(t, app, "/v1/buildings/enclosing?lat=45.5100&lon=-73.5600")
	if status != 404 {
		t.Fatalf("expected 404 outdoors, got %d", status)
	}
	if body["code"] != "not_found" {
		t.Errorf("expected not_found, got %v", body["code"])
	}
}

func TestEnclosingBuilding_SingleStoreRead(t *testing.T) {
	calls := 0
	store := &mockStore{listFn: func(ctx context.Context) ([]domain.Building, error) {
		calls++
		return campusBuildings(), nil
	}}
	app := setupApp(makeDeps(withStore(store)))

	status, body := get(t, app, "/v1/buildings/enclosing?lat=45.4957&lon=-73.5777")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if calls != 1 {
		t.Errorf("expected one store read, got %d", calls)
	}
	c := body["centroid"].(map[string]interface{})
	if math.Abs(c["latitude"].(float64)-45.4957) > 1e-9 || math.Abs(c["longitude"].(float64)+73.5777) > 1e-9 {
		t.Errorf("expected EV centroid, got %v", c)
	}
}

func TestInBuilding_Deprecated(t *testing.T) {
	app := setupApp(makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/geometry/in-building?lat=45.4957&lon=-73.5777", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("expected Sunset header")
	}
	if !strings.Contains(resp.Header.Get("Link"), "/v1/buildings/enclosing") {
		t.Errorf("expected successor link, got %q", resp.Header.Get("Link"))
	}

	var body map[string]interface{}
	_ = json.Unmarshal(readBody(t, resp.Body), &body)
	if body["inside"] != true {
		t.Errorf("expected inside, got %v", body)
	}

	_, body = get(t, app, "/v1/geometry/in-building?lat=0&lon=0")
	if body["inside"] != false {
		t.Errorf("expected outside at null island, got %v", body)
	}
	if _, ok := body["centroid"]; ok {
		t.Error("expected no centroid when outside")
	}
}

func TestSnap(t *testing.T) {
	app := setupApp(makeDeps())

	_, body := get(t, app, "/v1/geometry/snap?lat=45.4970&lon=-73.5790")
	if body["snapped"] != true {
		t.Fatalf("expected snapped, got %v", body)
	}
	if math.Abs(body["longitude"].(float64)+73.5789) > 1e-9 {
		t.Errorf("expected Hall centroid, got %v", body)
	}

	_, body = get(t, app, "/v1/geometry/snap?lat=45.51&lon=-73.56")
	if body["snapped"] != false || body["latitude"] != 45.51 || body["longitude"] != -73.56 {
		t.Errorf("expected passthrough, got %v", body)
	}

	if status, _ := get(t, app, "/v1/geometry/snap?lat=abc&lon=-73.56"); status != 400 {
		t.Errorf("expected 400 for unparsable lat, got %d", status)
	}
}

func TestDistance(t *testing.T) {
	app := setupApp(makeDeps())

	_, body := get(t, app, "/v1/geometry/distance?from_lat=45.4953534&from_lon=-73.578549")
	if body["distance_km"] != 9999.0 || body["known"] != false {
		t.Errorf("expected sentinel, got %v", body)
	}

	_, body = get(t, app, "/v1/geometry/distance?from_lat=45.4953534&from_lon=-73.578549&to_lat=45.4582&to_lon=-73.6405")
	if body["known"] != true || math.Abs(body["distance_km"].(float64)-6.36) > 0.05 {
		t.Errorf("expected ~6.36 km, got %v", body)
	}

	if status, _ := get(t, app, "/v1/geometry/distance?from_lat=45.49"); status != 400 {
		t.Errorf("expected 400 for half coordinate, got %d", status)
	}
}

func TestPlanRoute(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := get(t, app, "/v1/directions?origin_lat=45.4970&origin_lon=-73.5790&dest_lat=45.4582&dest_lon=-73.6405&mode=transit")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["origin_building"] != "Hall Building" || body["destination_building"] != "Central Building" {
		t.Errorf("unexpected buildings %v", body)
	}
	if body["shuttle_applicable"] != true {
		t.Error("expected shuttle applicable between campuses")
	}
	if body["mode"] != "transit" {
		t.Errorf("expected transit, got %v", body["mode"])
	}

	if status, _ := get(t, app, "/v1/directions?dest_lat=45.4582&dest_lon=-73.6405"); status != 400 {
		t.Errorf("expected 400 without origin, got %d", status)
	}
	if status, _ := get(t, app, "/v1/directions?origin_lat=45.4970&origin_lon=-73.5790&dest_lat=45.4582&dest_lon=-73.6405&mode=teleport"); status != 400 {
		t.Errorf("expected 400 for bad mode, got %d", status)
	}
}

func TestShuttleApplicable(t *testing.T) {
	app := setupApp(makeDeps())

	_, body := get(t, app, "/v1/shuttle/applicable?origin_lat=45.4953534&origin_lon=-73.578549&dest_lat=45.4582&dest_lon=-73.6405")
	if body["applicable"] != true {
		t.Errorf("expected applicable, got %v", body)
	}

	_, body = get(t, app, "/v1/shuttle/applicable?origin_lat=45.4953534&origin_lon=-73.578549")
	if body["applicable"] != false {
		t.Errorf("expected not applicable without destination, got %v", body)
	}
}

// ---- Shuttle feed ----

func postJSON(t *testing.T, app *fiber.App, url, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestShuttlePositions_IngestAndList(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := postJSON(t, app, "/v1/shuttle/positions", `[
		{"id":"BUS1","latitude":45.49,"longitude":-73.57,"iconImage":"bus.png"},
		{"id":"GPLoyola","latitude":45.458,"longitude":-73.64,"iconImage":"stop.png"},
		{"id":"XYZ","latitude":0,"longitude":0,"iconImage":""}
	]`)
	if status != 202 {
		t.Fatalf("expected 202, got %d", status)
	}
	if body["accepted"] != 2.0 || body["rejected"] != 1.0 {
		t.Errorf("unexpected counts %v", body)
	}

	_, body = get(t, app, "/v1/shuttle/positions")
	if data := body["data"].([]interface{}); len(data) != 2 {
		t.Errorf("expected 2 points, got %d", len(data))
	}

	_, body = get(t, app, "/v1/shuttle/positions?kind=bus")
	data := body["data"].([]interface{})
	if len(data) != 1 || data[0].(map[string]interface{})["id"] != "BUS1" {
		t.Errorf("expected BUS1 only, got %v", data)
	}

	if status, _ := get(t, app, "/v1/shuttle/positions?kind=train"); status != 400 {
		t.Errorf("expected 400 for unknown kind, got %d", status)
	}
}

func TestShuttlePositions_BadBody(t *testing.T) {
	app := setupApp(makeDeps())

	if status, _ := postJSON(t, app, "/v1/shuttle/positions", `{"id":"BUS1"}`); status != 400 {
		t.Errorf("expected 400 for object body, got %d", status)
	}
}

func TestShuttlePositions_NoBackend(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Shuttle = usecases.NewShuttleService(nil, nil)
	}))

	status, body := postJSON(t, app, "/v1/shuttle/positions", `[{"id":"BUS1","latitude":45.49,"longitude":-73.57}]`)
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	if body["code"] != "unavailable" {
		t.Errorf("expected unavailable, got %v", body["code"])
	}
}

func TestListCampuses(t *testing.T) {
	app := setupApp(makeDeps())

	_, body := get(t, app, "/v1/campuses")
	data := body["data"].([]interface{})
	if len(data) != 2 || data[0].(map[string]interface{})["code"] != "SGW" {
		t.Errorf("unexpected campuses %v", data)
	}
}

// ---- Health ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := get(t, app, "/health")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", body["status"])
	}
}

func TestReady(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Cache = mockPinger{}
	}))
	status, body := get(t, app, "/ready")
	if status != 200 {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	checks := body["checks"].(map[string]interface{})
	if checks["database"] != "not configured" || checks["cache"] != "ok" || checks["buildings"] != "ok" {
		t.Errorf("unexpected checks %v", checks)
	}

	app = setupApp(makeDeps(func(d *handler.Dependencies) {
		d.DB = mockPinger{err: errors.New("connection refused")}
	}))
	if status, _ := get(t, app, "/ready"); status != 503 {
		t.Errorf("expected 503 with failing database, got %d", status)
	}

	app = setupApp(makeDeps(withStore(&mockStore{listFn: func(ctx context.Context) ([]domain.Building, error) {
		return nil, nil
	}})))
	if status, _ := get(t, app, "/ready"); status != 503 {
		t.Errorf("expected 503 with no buildings, got %d", status)
	}
}

// ---- Middleware ----

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Errorf("expected uuid request id, got %q", resp.Header.Get("X-Request-ID"))
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "trace-me")
	resp, _ = app.Test(req, -1)
	if v := resp.Header.Get("X-Request-ID"); v != "trace-me" {
		t.Errorf("expected echoed request id, got %q", v)
	}
}

func TestCaching_ETagAndCacheControl(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/buildings/markers", nil), -1)
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=600" {
		t.Errorf("expected markers Cache-Control, got %q", cc)
	}
	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected weak ETag, got %q", etag)
	}

	req := httptest.NewRequest("GET", "/v1/buildings/markers", nil)
	req.Header.Set("If-None-Match", etag)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/shuttle/positions", nil), -1)
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store for shuttle, got %q", cc)
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/ws", nil), -1)
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("expected 426, got %d", resp.StatusCode)
	}
}

func TestDocs_ServesOpenAPI(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(readBody(t, resp.Body)), "Campus Navigation API") {
		t.Error("expected embedded OpenAPI document")
	}
}

func TestAccessLog(t *testing.T) {
	app := fiber.New()
	app.Use(handler.RequestLogger())
	app.Use(handler.AccessLog())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(readBody(t, resp.Body)), "ok") {
		t.Error("expected body to pass through")
	}
}

// ---- GraphQL ----

func graphql(t *testing.T, app *fiber.App, query string) map[string]interface{} {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"query": query})
	_, out := postJSON(t, app, "/graphql", string(body))
	return out
}

func TestGraphQL_Markers(t *testing.T) {
	app := setupApp(makeDeps())

	out := graphql(t, app, `{ markers { name centroid { latitude longitude } } }`)
	if out["errors"] != nil {
		t.Fatalf("unexpected errors: %v", out["errors"])
	}
	markers := out["data"].(map[string]interface{})["markers"].([]interface{})
	if len(markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(markers))
	}
	if markers[1].(map[string]interface{})["name"] != "EV Building" {
		t.Errorf("unexpected order %v", markers)
	}
}

func TestGraphQL_EnclosingAndShuttle(t *testing.T) {
	app := setupApp(makeDeps())

	out := graphql(t, app, `{
		enclosingBuilding(lat: 45.4582, lon: -73.6405) { name centroid { latitude } }
		shuttleApplicable(originLat: 45.4953534, originLon: -73.578549, destLat: 45.4582, destLon: -73.6405)
		distance(originLat: 45.4953534, originLon: -73.578549) { km known }
	}`)
	if out["errors"] != nil {
		t.Fatalf("unexpected errors: %v", out["errors"])
	}
	data := out["data"].(map[string]interface{})
	b := data["enclosingBuilding"].(map[string]interface{})
	if b["name"] != "Central Building" {
		t.Errorf("expected Central Building, got %v", b["name"])
	}
	if math.Abs(b["centroid"].(map[string]interface{})["latitude"].(float64)-45.4582) > 1e-9 {
		t.Errorf("unexpected centroid %v", b["centroid"])
	}
	if data["shuttleApplicable"] != true {
		t.Error("expected shuttle applicable")
	}
	if d := data["distance"].(map[string]interface{}); d["known"] != false {
		t.Errorf("expected unknown distance, got %v", d)
	}
}

func TestGraphQL_EnclosingOutdoorsIsNull(t *testing.T) {
	app := setupApp(makeDeps())

	out := graphql(t, app, `{ enclosingBuilding(lat: 0, lon: 0) { name } }`)
	if out["errors"] != nil {
		t.Fatalf("unexpected errors: %v", out["errors"])
	}
	if out["data"].(map[string]interface{})["enclosingBuilding"] != nil {
		t.Error("expected null building")
	}
}
