package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type testServer struct {
	app *App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	cfg := testutil.Config()
	cfg.Storage.LocalPath = t.TempDir()
	cfg.RateLimit.MaxRequests = 10000

	a, err := New(cfg, db, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testServer{app: a, db: db}
}

func (s *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func (s *testServer) register(t *testing.T, username string) *http.Cookie {
	t.Helper()
	w := s.do(postForm("/registration/", url.Values{
		"username":  {username},
		"psw":       {"pa55word"},
		"firstname": {"First"},
		"lastname":  {"Last"},
	}))
	if w.Code != http.StatusFound {
		t.Fatalf("register status: want=%d got=%d body=%s", http.StatusFound, w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

func TestRegistrationPage_DuplicateUser(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	w := s.do(postForm("/registration/", url.Values{
		"username": {"alice"},
		"psw":      {"other"},
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "User already exists.") {
		t.Fatalf("body does not contain duplicate message: %s", w.Body.String())
	}

	var count int64
	s.db.Model(&model.User{}).Where("username = ?", "alice").Count(&count)
	if count != 1 {
		t.Fatalf("users: want=1 got=%d", count)
	}
}

func TestRegistrationPage_PasswordTooLong(t *testing.T) {
	s := newTestServer(t)

	w := s.do(postForm("/registration/", url.Values{
		"username": {"bob"},
		"psw":      {strings.Repeat("x", 73)},
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Password must be at most 72 bytes.") {
		t.Fatalf("body does not contain password message: %s", w.Body.String())
	}

	var count int64
	s.db.Model(&model.User{}).Where("username = ?", "bob").Count(&count)
	if count != 0 {
		t.Fatalf("users: want=0 got=%d", count)
	}
}

func TestLoginPage(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "bob")

	w := s.do(postForm("/login/", url.Values{"username": {"bob"}, "psw": {"wrong"}}))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Invalid username or password.") {
		t.Fatalf("bad login: status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(postForm("/login/", url.Values{"username": {"bob"}, "psw": {"pa55word"}}))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("login: status=%d location=%s", w.Code, w.Header().Get("Location"))
	}
	sessionCookie(t, w)

	w = s.do(httptest.NewRequest(http.MethodGet, "/logout/", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("logout status: want=302 got=%d", w.Code)
	}
}

func TestEnrollSubmitResultFlow(t *testing.T) {
	s := newTestServer(t)
	cookie := s.register(t, "carol")
	course := testutil.Course(t, s.db, "Go", 0)
	q1 := testutil.Question(t, s.db, course.ID, "Q1", 5,
		testutil.ChoiceFixture{Text: "a", Correct: true},
		testutil.ChoiceFixture{Text: "b", Correct: true},
		testutil.ChoiceFixture{Text: "c"},
	)
	q2 := testutil.Question(t, s.db, course.ID, "Q2", 5,
		testutil.ChoiceFixture{Text: "d", Correct: true},
		testutil.ChoiceFixture{Text: "e"},
	)
	coursePath := "/" + strconv.Itoa(int(course.ID)) + "/"

	for i := 0; i < 2; i++ {
		w := s.do(httptest.NewRequest(http.MethodGet, coursePath+"enroll/", nil), cookie)
		if w.Code != http.StatusFound || w.Header().Get("Location") != coursePath {
			t.Fatalf("enroll #%d: status=%d location=%s", i+1, w.Code, w.Header().Get("Location"))
		}
	}
	var reloaded model.Course
	s.db.First(&reloaded, course.ID)
	if reloaded.TotalEnrollment != 1 {
		t.Fatalf("total_enrollment: want=1 got=%d", reloaded.TotalEnrollment)
	}

	w := s.do(httptest.NewRequest(http.MethodGet, coursePath, nil), cookie)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `name="choice"`) {
		t.Fatalf("course detail: status=%d", w.Code)
	}

	form := url.Values{"choice": {
		strconv.Itoa(int(q1.Choices[0].ID)),
		strconv.Itoa(int(q1.Choices[1].ID)),
		strconv.Itoa(int(q2.Choices[0].ID)),
	}}
	w = s.do(postForm(coursePath+"submit/", form), cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("submit: status=%d body=%s", w.Code, w.Body.String())
	}
	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "/course/"+strconv.Itoa(int(course.ID))+"/submission/") {
		t.Fatalf("submit redirect: got=%s", location)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, location, nil), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("result: status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Congratulations") || !strings.Contains(w.Body.String(), "10/10") {
		t.Fatalf("result page missing score: %s", w.Body.String())
	}

	other := s.register(t, "mallory")
	w = s.do(httptest.NewRequest(http.MethodGet, location, nil), other)
	if w.Code != http.StatusForbidden {
		t.Fatalf("other user result: want=403 got=%d", w.Code)
	}
}

func TestSubmitPage_NotEnrolled(t *testing.T) {
	s := newTestServer(t)
	cookie := s.register(t, "dave")
	course := testutil.Course(t, s.db, "Rust", 0)

	w := s.do(postForm("/"+strconv.Itoa(int(course.ID))+"/submit/", url.Values{"choice": {"1"}}), cookie)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status: want=403 got=%d", w.Code)
	}

	w = s.do(postForm("/"+strconv.Itoa(int(course.ID))+"/submit/", url.Values{"choice": {"x"}}), cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid choice: want=400 got=%d", w.Code)
	}
}

func TestIndexAndNotFound(t *testing.T) {
	s := newTestServer(t)
	testutil.Course(t, s.db, "Popular", 3)

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Popular") {
		t.Fatalf("index: status=%d", w.Code)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/999/", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing course: want=404 got=%d", w.Code)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("api 404: status=%d content-type=%s", w.Code, w.Header().Get("Content-Type"))
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return env
}

func jsonRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (s *testServer) apiLogin(t *testing.T, username string) string {
	t.Helper()
	w := s.do(jsonRequest(http.MethodPost, "/api/login", `{"username":"`+username+`","password":"password"}`, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("api login: status=%d body=%s", w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	json.Unmarshal(decode(t, w).Data, &data)
	return data.Token
}

func TestAPI_EnrollSubmitResult(t *testing.T) {
	s := newTestServer(t)
	testutil.User(t, s.db, "erin", model.RoleLearner)
	token := s.apiLogin(t, "erin")
	course := testutil.Course(t, s.db, "API", 0)
	q := testutil.Question(t, s.db, course.ID, "Q", 4,
		testutil.ChoiceFixture{Text: "yes", Correct: true},
		testutil.ChoiceFixture{Text: "no"},
	)
	base := "/api/courses/" + strconv.Itoa(int(course.ID))

	w := s.do(jsonRequest(http.MethodPost, base+"/submissions", `{"choiceIds":[1]}`, token))
	if w.Code != http.StatusForbidden {
		t.Fatalf("submit before enroll: want=403 got=%d", w.Code)
	}

	w = s.do(jsonRequest(http.MethodPost, base+"/enroll", "", token))
	if w.Code != http.StatusOK {
		t.Fatalf("enroll: status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(jsonRequest(http.MethodPost, base+"/submissions",
		`{"choiceIds":[`+strconv.Itoa(int(q.Choices[0].ID))+`,424242]}`, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status=%d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		SubmissionID uint `json:"submissionId"`
	}
	json.Unmarshal(decode(t, w).Data, &created)

	w = s.do(jsonRequest(http.MethodGet, base+"/submissions/"+strconv.Itoa(int(created.SubmissionID))+"/result", "", token))
	if w.Code != http.StatusOK {
		t.Fatalf("result: status=%d body=%s", w.Code, w.Body.String())
	}
	var view struct {
		Score struct {
			TotalScore    int  `json:"totalScore"`
			PossibleScore int  `json:"possibleScore"`
			Passed        bool `json:"passed"`
		} `json:"score"`
	}
	json.Unmarshal(decode(t, w).Data, &view)
	if view.Score.TotalScore != 4 || view.Score.PossibleScore != 4 || !view.Score.Passed {
		t.Fatalf("score: got=%+v", view.Score)
	}

	w = s.do(jsonRequest(http.MethodGet, "/api/courses/"+strconv.Itoa(int(course.ID)), "", token))
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), `"isCorrect":true`) {
		t.Fatalf("course detail leaks answers: %s", w.Body.String())
	}

	w = s.do(jsonRequest(http.MethodGet, "/api/courses/top?limit=5", "", token))
	var top []model.Course
	json.Unmarshal(decode(t, w).Data, &top)
	if len(top) != 1 || !top[0].IsEnrolled || top[0].TotalEnrollment != 1 {
		t.Fatalf("top courses: got=%+v", top)
	}
}

func TestAPI_AdminRequiresStaff(t *testing.T) {
	s := newTestServer(t)
	testutil.User(t, s.db, "learner", model.RoleLearner)
	testutil.User(t, s.db, "boss", model.RoleStaff)

	w := s.do(jsonRequest(http.MethodGet, "/api/admin/courses", "", ""))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous admin: want=401 got=%d", w.Code)
	}
	w = s.do(jsonRequest(http.MethodGet, "/api/admin/courses", "", s.apiLogin(t, "learner")))
	if w.Code != http.StatusForbidden {
		t.Fatalf("learner admin: want=403 got=%d", w.Code)
	}

	staff := s.apiLogin(t, "boss")
	w = s.do(jsonRequest(http.MethodPost, "/api/admin/courses", `{"name":"New course","description":"d","pubDate":"2024-01-02"}`, staff))
	if w.Code != http.StatusCreated {
		t.Fatalf("create course: status=%d body=%s", w.Code, w.Body.String())
	}
	w = s.do(jsonRequest(http.MethodGet, "/api/admin/courses?pub_date=2024-01-02", "", staff))
	var page struct {
		Total int64 `json:"total"`
	}
	json.Unmarshal(decode(t, w).Data, &page)
	if w.Code != http.StatusOK || page.Total != 1 {
		t.Fatalf("list courses: status=%d total=%d", w.Code, page.Total)
	}
	w = s.do(jsonRequest(http.MethodGet, "/api/admin/courses?pub_date=bad", "", staff))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad pub_date: want=400 got=%d", w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: status=%d", w.Code)
	}
	w = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("metrics: status=%d", w.Code)
	}
}
