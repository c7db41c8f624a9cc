package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/service"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock SwapService ──

type mockSwapService struct {
	createResult  *dto.SwapRequestResponse
	createErr     error
	respondResult *dto.SwapResultResponse
	respondErr    error
	cancelResult  *dto.SwapRequestResponse
	cancelErr     error
	rejectResult  *dto.SwapRequestResponse
	rejectErr     error
	getResult     *dto.SwapRequestResponse
	getErr        error
	listResult    []dto.SwapRequestResponse
	listTotal     int64
	listErr       error
	offerResult   []dto.AssignmentResponse
	offerErr      error

	lastCaller string
	lastPage   *dto.PaginationRequest
}

func (m *mockSwapService) CreatePersonal(_ context.Context, _ *dto.CreatePersonalSwapRequest, callerID string) (*dto.SwapRequestResponse, error) {
	m.lastCaller = callerID
	return m.createResult, m.createErr
}
func (m *mockSwapService) CreateForum(_ context.Context, _ *dto.CreateForumSwapRequest, callerID string) (*dto.SwapRequestResponse, error) {
	m.lastCaller = callerID
	return m.createResult, m.createErr
}
func (m *mockSwapService) Respond(_ context.Context, _ string, _ *dto.RespondSwapRequest, callerID string) (*dto.SwapResultResponse, error) {
	m.lastCaller = callerID
	return m.respondResult, m.respondErr
}
func (m *mockSwapService) Cancel(_ context.Context, _, callerID string) (*dto.SwapRequestResponse, error) {
	m.lastCaller = callerID
	return m.cancelResult, m.cancelErr
}
func (m *mockSwapService) Reject(_ context.Context, _, callerID string) (*dto.SwapRequestResponse, error) {
	m.lastCaller = callerID
	return m.rejectResult, m.rejectErr
}
func (m *mockSwapService) Get(_ context.Context, _, _ string) (*dto.SwapRequestResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockSwapService) ListIncoming(_ context.Context, _ string, p *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error) {
	m.lastPage = p
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockSwapService) ListForum(_ context.Context, _ string, p *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error) {
	m.lastPage = p
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockSwapService) ListSubmitted(_ context.Context, _ string, p *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error) {
	m.lastPage = p
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockSwapService) ListOfferable(_ context.Context, _, _ string) ([]dto.AssignmentResponse, error) {
	return m.offerResult, m.offerErr
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	listResult     []dto.AssignmentResponse
	listErr        error
	acceptResult   *dto.AssignmentResponse
	acceptErr      error
	rejectResult   *dto.AssignmentResponse
	rejectErr      error
	calendar       []byte
	calendarErr    error
	workloadResult *dto.WorkloadResponse
	workloadErr    error
}

func (m *mockAssignmentService) ListMine(_ context.Context, _ string, _ *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAssignmentService) Accept(_ context.Context, _, _ string) (*dto.AssignmentResponse, error) {
	return m.acceptResult, m.acceptErr
}
func (m *mockAssignmentService) Reject(_ context.Context, _, _ string) (*dto.AssignmentResponse, error) {
	return m.rejectResult, m.rejectErr
}
func (m *mockAssignmentService) ExportCalendar(_ context.Context, _ string) ([]byte, error) {
	return m.calendar, m.calendarErr
}
func (m *mockAssignmentService) GetWorkload(_ context.Context, _ string) (*dto.WorkloadResponse, error) {
	return m.workloadResult, m.workloadErr
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	listResult []dto.NotificationResponse
	listTotal  int64
	listErr    error
}

func (m *mockNotificationService) ListMine(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.NotificationResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

const (
	testUserID = "11111111-1111-1111-1111-111111111111"
	testExamID = "22222222-2222-2222-2222-222222222222"
	testSwapID = "33333333-3333-3333-3333-333333333333"

	testAssignmentID = "44444444-4444-4444-4444-444444444444"
)

func setAuth(c *gin.Context) {
	c.Set("user_id", testUserID)
	c.Set("role", "ta")
	c.Set("department", "CS")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// serve 注册单个路由并执行请求；auth=false 时不注入用户
func serve(method, pattern, target string, body io.Reader, auth bool, h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r := gin.New()
	r.Handle(method, pattern, func(c *gin.Context) {
		if auth {
			setAuth(c)
		}
		h(c)
	})
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// SwapHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSwapHandler_CreatePersonal_Success(t *testing.T) {
	mock := &mockSwapService{createResult: &dto.SwapRequestResponse{ID: testSwapID, Status: "pending"}}
	h := NewSwapHandler(mock)

	w := serve("POST", "/swap-requests/personal", "/swap-requests/personal", jsonBody(dto.CreatePersonalSwapRequest{
		Target:         "peer@proctorhub.test",
		ExamID:         testExamID,
		AvailableFrom:  "2026-06-01",
		AvailableUntil: "2026-06-30",
	}), true, h.CreatePersonal)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if mock.lastCaller != testUserID {
		t.Errorf("expected caller %s, got %s", testUserID, mock.lastCaller)
	}
}

func TestSwapHandler_CreatePersonal_BadWindowFormat(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{})

	w := serve("POST", "/swap-requests/personal", "/swap-requests/personal", jsonBody(map[string]string{
		"target":          "peer@proctorhub.test",
		"exam_id":         testExamID,
		"available_from":  "06/01/2026",
		"available_until": "2026-06-30",
	}), true, h.CreatePersonal)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSwapHandler_CreateForum_NotEligible(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{createErr: service.ErrSwapAssignmentNotAccepted})

	w := serve("POST", "/swap-requests/forum", "/swap-requests/forum", jsonBody(dto.CreateForumSwapRequest{
		ExamID:         testExamID,
		AvailableFrom:  "2026-06-01",
		AvailableUntil: "2026-06-30",
	}), true, h.CreateForum)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14202 {
		t.Errorf("expected code 14202, got %d", resp.Code)
	}
}

func TestSwapHandler_CreateForum_Duplicate(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{createErr: service.ErrSwapRequestExists})

	w := serve("POST", "/swap-requests/forum", "/swap-requests/forum", jsonBody(dto.CreateForumSwapRequest{
		ExamID:         testExamID,
		AvailableFrom:  "2026-06-01",
		AvailableUntil: "2026-06-30",
	}), true, h.CreateForum)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestSwapHandler_Respond_Success(t *testing.T) {
	mock := &mockSwapService{respondResult: &dto.SwapResultResponse{
		Request:   dto.SwapRequestResponse{ID: testSwapID, Status: "approved"},
		Requester: dto.WorkloadResponse{UserID: "r", OutDeptHours: 2},
	}}
	h := NewSwapHandler(mock)

	w := serve("POST", "/swap-requests/:id/respond", "/swap-requests/"+testSwapID+"/respond",
		jsonBody(dto.RespondSwapRequest{ExamID: testExamID}), true, h.Respond)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestSwapHandler_Respond_AlreadyProcessed(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{respondErr: service.ErrSwapAlreadyProcessed})

	w := serve("POST", "/swap-requests/:id/respond", "/swap-requests/"+testSwapID+"/respond",
		jsonBody(dto.RespondSwapRequest{ExamID: testExamID}), true, h.Respond)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14401 {
		t.Errorf("expected code 14401, got %d", resp.Code)
	}
}

func TestSwapHandler_Respond_AssignmentNotAcceptable(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{respondErr: service.ErrSwapAssignmentUnavailable})

	w := serve("POST", "/swap-requests/:id/respond", "/swap-requests/"+testSwapID+"/respond",
		jsonBody(dto.RespondSwapRequest{ExamID: testExamID}), true, h.Respond)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14402 {
		t.Errorf("expected code 14402, got %d", resp.Code)
	}
}

func TestSwapHandler_Respond_InvalidExamID(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{})

	w := serve("POST", "/swap-requests/:id/respond", "/swap-requests/"+testSwapID+"/respond",
		jsonBody(dto.RespondSwapRequest{ExamID: "not-a-uuid"}), true, h.Respond)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSwapHandler_Respond_Unauthenticated(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{})

	w := serve("POST", "/swap-requests/:id/respond", "/swap-requests/"+testSwapID+"/respond",
		jsonBody(dto.RespondSwapRequest{ExamID: testExamID}), false, h.Respond)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSwapHandler_MalformedID(t *testing.T) {
	mock := &mockSwapService{}
	h := NewSwapHandler(mock)

	routes := []struct {
		method, pattern, target string
		body                    io.Reader
		fn                      gin.HandlerFunc
	}{
		{"GET", "/swap-requests/:id", "/swap-requests/not-a-uuid", nil, h.Get},
		{"GET", "/swap-requests/:id/offerable", "/swap-requests/not-a-uuid/offerable", nil, h.ListOfferable},
		{"POST", "/swap-requests/:id/respond", "/swap-requests/not-a-uuid/respond", jsonBody(dto.RespondSwapRequest{ExamID: testExamID}), h.Respond},
		{"POST", "/swap-requests/:id/cancel", "/swap-requests/not-a-uuid/cancel", nil, h.Cancel},
		{"POST", "/swap-requests/:id/reject", "/swap-requests/not-a-uuid/reject", nil, h.Reject},
	}
	for _, rt := range routes {
		w := serve(rt.method, rt.pattern, rt.target, rt.body, true, rt.fn)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", rt.method, rt.target, w.Code)
		}
		if resp := parseResponse(w); resp.Code != 14101 {
			t.Errorf("%s %s: expected code 14101, got %d", rt.method, rt.target, resp.Code)
		}
	}
	if mock.lastCaller != "" {
		t.Errorf("malformed id should not reach the service, caller=%s", mock.lastCaller)
	}
}

func TestAssignmentHandler_MalformedID(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})

	w := serve("PUT", "/assignments/:id/accept", "/assignments/a1/accept", nil, true, h.Accept)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSwapHandler_Cancel_NotRequester(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{cancelErr: service.ErrSwapNotRequester})

	w := serve("POST", "/swap-requests/:id/cancel", "/swap-requests/"+testSwapID+"/cancel", nil, true, h.Cancel)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14301 {
		t.Errorf("expected code 14301, got %d", resp.Code)
	}
}

func TestSwapHandler_Reject_Success(t *testing.T) {
	mock := &mockSwapService{rejectResult: &dto.SwapRequestResponse{ID: testSwapID, Status: "rejected"}}
	h := NewSwapHandler(mock)

	w := serve("POST", "/swap-requests/:id/reject", "/swap-requests/"+testSwapID+"/reject", nil, true, h.Reject)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSwapHandler_Get_NotFound(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{getErr: service.ErrSwapRequestNotFound})

	w := serve("GET", "/swap-requests/:id", "/swap-requests/"+testSwapID, nil, true, h.Get)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSwapHandler_ListForum_Pagination(t *testing.T) {
	mock := &mockSwapService{
		listResult: []dto.SwapRequestResponse{{ID: testSwapID}},
		listTotal:  41,
	}
	h := NewSwapHandler(mock)

	w := serve("GET", "/swap-requests/forum", "/swap-requests/forum?page=2&page_size=20", nil, true, h.ListForum)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastPage == nil || mock.lastPage.GetOffset() != 20 {
		t.Errorf("expected offset 20, got %+v", mock.lastPage)
	}

	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", body.Data.Pagination.TotalPages)
	}
}

func TestSwapHandler_ListIncoming_BadPageSize(t *testing.T) {
	h := NewSwapHandler(&mockSwapService{})

	w := serve("GET", "/swap-requests/incoming", "/swap-requests/incoming?page_size=1000", nil, true, h.ListIncoming)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSwapHandler_ErrorKindFallbacks(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrExamNotFound, http.StatusNotFound},
		{service.ErrSwapSameExam, http.StatusForbidden},
		{service.ErrSwapSelfRespond, http.StatusForbidden},
		{service.ErrSwapInvalidWindow, http.StatusBadRequest},
		{pkgerrors.ErrOptimisticLock, http.StatusConflict},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := NewSwapHandler(&mockSwapService{getErr: tc.err})
		w := serve("GET", "/swap-requests/:id", "/swap-requests/"+testSwapID, nil, true, h.Get)
		if w.Code != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_Accept_AlreadyResponded(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{acceptErr: service.ErrAssignmentAlreadyResponded})

	w := serve("PUT", "/assignments/:id/accept", "/assignments/"+testAssignmentID+"/accept", nil, true, h.Accept)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAssignmentHandler_Reject_NotOwner(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{rejectErr: service.ErrAssignmentNotOwner})

	w := serve("PUT", "/assignments/:id/reject", "/assignments/"+testAssignmentID+"/reject", nil, true, h.Reject)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAssignmentHandler_ListMine_InvalidStatus(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})

	w := serve("GET", "/assignments/me", "/assignments/me?status=unknown", nil, true, h.ListMine)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAssignmentHandler_ExportCalendar(t *testing.T) {
	ics := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	h := NewAssignmentHandler(&mockAssignmentService{calendar: ics})

	w := serve("GET", "/assignments/me/calendar.ics", "/assignments/me/calendar.ics", nil, true, h.ExportCalendar)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("unexpected content type %s", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), ics) {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestAssignmentHandler_GetWorkload(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{workloadResult: &dto.WorkloadResponse{UserID: testUserID, InDeptHours: 4}})

	w := serve("GET", "/users/me/workload", "/users/me/workload", nil, true, h.GetWorkload)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_ListMine(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{
		listResult: []dto.NotificationResponse{{ID: "n1", Title: "换班成功"}},
		listTotal:  1,
	})

	w := serve("GET", "/notifications/me", "/notifications/me", nil, true, h.ListMine)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
