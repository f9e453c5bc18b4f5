package form_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/formerror"
)

type fakeSession struct {
	records map[string]form.SessionRecord
}

func newFakeSession() *fakeSession {
	return &fakeSession{records: map[string]form.SessionRecord{}}
}

func (s *fakeSession) Get(_ context.Context, name string) (form.SessionRecord, bool, error) {
	record, ok := s.records[name]
	return record, ok, nil
}

func (s *fakeSession) Set(_ context.Context, name string, record form.SessionRecord) error {
	s.records[name] = record
	return nil
}

func (s *fakeSession) Delete(_ context.Context, name string) error {
	delete(s.records, name)
	return nil
}

type fakeRequest struct {
	method  string
	path    string
	body    field.Body
	xhr     bool
	session form.SessionStore
}

func (r fakeRequest) Method() string             { return r.method }
func (r fakeRequest) Path() string               { return r.path }
func (r fakeRequest) Body() (field.Body, error)  { return r.body, nil }
func (r fakeRequest) XHR() bool                  { return r.xhr }
func (r fakeRequest) Session() form.SessionStore { return r.session }

type fakeResponse struct {
	template string
	data     map[string]any
	redirect string
	status   int
	payload  any
}

func (r *fakeResponse) Render(_ context.Context, template string, data map[string]any) error {
	r.template = template
	r.data = data
	return nil
}

func (r *fakeResponse) Redirect(_ context.Context, url string) error {
	r.redirect = url
	return nil
}

func (r *fakeResponse) JSON(_ context.Context, status int, payload any) error {
	r.status = status
	r.payload = payload
	return nil
}

func TestHandleGetWithoutSession(t *testing.T) {
	t.Parallel()

	f := newPersonForm(t, form.WithGetValues(func(context.Context, form.Request) (field.Values, error) {
		return field.Values{"firstName": "Ada"}, nil
	}))
	res := &fakeResponse{}
	h, err := f.Handle(context.Background(), fakeRequest{method: http.MethodGet, path: "/people"}, res)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.template != "aForm" {
		t.Fatalf("expected default template, got %q", res.template)
	}
	if res.data["form"] != h {
		t.Fatalf("template data should carry the handler")
	}
	forms, _ := res.data["forms"].(map[string]*form.Handler)
	if forms["aForm"] != h {
		t.Fatalf("forms map should be keyed by form name")
	}
	if !h.Options().HideErrors || h.ErrorHTML() != "" {
		t.Fatalf("a fresh GET must not show errors")
	}
	if got := h.Values()["firstName"]; got != "Ada" {
		t.Fatalf("expected values from GetValues, got %v", got)
	}
}

func TestHandlePostInvalidRedirectsWithErrors(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	f := newPersonForm(t)
	res := &fakeResponse{}
	post := fakeRequest{
		method:  http.MethodPost,
		path:    "/people",
		body:    field.Body{"firstName": "", "lastName": "Bar"},
		session: session,
	}

	h, err := f.Handle(context.Background(), post, res)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if h.Valid() {
		t.Fatalf("expected invalid submission")
	}
	if res.redirect != "/people" {
		t.Fatalf("expected redirect back to the form, got %q", res.redirect)
	}
	record := session.records["aForm"]
	if record.ErrorMessage != "This form contains errors" {
		t.Fatalf("unexpected session record: %+v", record)
	}
	if diff := cmp.Diff(field.Values{"firstName": "", "lastName": "Bar"}, record.Values); diff != "" {
		t.Fatalf("session values mismatch (-want +got):\n%s", diff)
	}

	res = &fakeResponse{}
	get, err := f.Handle(context.Background(), fakeRequest{method: http.MethodGet, path: "/people", session: session}, res)
	if err != nil {
		t.Fatalf("Handle GET: %v", err)
	}
	if _, ok := session.records["aForm"]; ok {
		t.Fatalf("session record must be consumed by the GET")
	}
	if get.Options().HideErrors {
		t.Fatalf("redirected GET should show errors")
	}
	if got := get.ErrorHTML(); got != `<div class="formError"><p>This form contains errors</p></div>` {
		t.Fatalf("unexpected banner %s", got)
	}
	if got := get.Field("firstName").ErrorText(); got != "This field is required" {
		t.Fatalf("unexpected field error %q", got)
	}
	if got := get.Values()["lastName"]; got != "Bar" {
		t.Fatalf("submitted values should be restored, got %v", got)
	}
}

func TestHandlePostValidStoresAndRedirects(t *testing.T) {
	t.Parallel()

	var saved field.Values
	session := newFakeSession()
	f := newPersonForm(t, form.WithSetValues(func(_ context.Context, _ form.Request, values field.Values) error {
		saved = values
		return nil
	}))
	res := &fakeResponse{}
	post := fakeRequest{
		method:  http.MethodPost,
		path:    "/people",
		body:    field.Body{"firstName": "Ada", "lastName": "Lovelace"},
		session: session,
	}
	if _, err := f.Handle(context.Background(), post, res); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if saved["firstName"] != "Ada" {
		t.Fatalf("SetValues not called with parsed values: %v", saved)
	}
	if res.redirect != "/people" {
		t.Fatalf("unexpected redirect %q", res.redirect)
	}
	if !session.records["aForm"].Success {
		t.Fatalf("expected success flag in the session")
	}

	res = &fakeResponse{}
	get, err := f.Handle(context.Background(), fakeRequest{method: http.MethodGet, path: "/people", session: session}, res)
	if err != nil {
		t.Fatalf("Handle GET: %v", err)
	}
	if got := get.ErrorHTML(); got != `<div class="formSuccess"><p>Saved successfully</p></div>` {
		t.Fatalf("unexpected banner %s", got)
	}
}

func TestHandleSuccessTemplateAndRedirectURL(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	f := newPersonForm(t, form.WithSuccessTemplate("thanks"))
	ctx := context.Background()
	session.records["aForm"] = form.SessionRecord{Success: true}

	res := &fakeResponse{}
	if _, err := f.Handle(ctx, fakeRequest{method: http.MethodGet, session: session}, res); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.template != "thanks" {
		t.Fatalf("expected success template, got %q", res.template)
	}

	redirecting := newPersonForm(t, form.WithRedirectURL("/done"))
	res = &fakeResponse{}
	post := fakeRequest{method: http.MethodPost, path: "/people", body: field.Body{"firstName": "a", "lastName": "b"}, session: session}
	if _, err := redirecting.Handle(ctx, post, res); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.redirect != "/done" {
		t.Fatalf("expected redirect url, got %q", res.redirect)
	}
	if _, ok := session.records["aForm"]; ok {
		t.Fatalf("redirecting away should clear the session slot")
	}
}

func TestHandleXHR(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPersonForm(t, form.WithGetValues(func(context.Context, form.Request) (field.Values, error) {
		return field.Values{"firstName": "stored"}, nil
	}))

	res := &fakeResponse{}
	session := newFakeSession()
	invalid := fakeRequest{method: http.MethodPost, xhr: true, body: field.Body{"firstName": "x"}, session: session}
	if _, err := f.Handle(ctx, invalid, res); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.status)
	}
	result, ok := res.payload.(form.Result)
	if !ok || result.ErrorMessage == nil || result.ErrorMessage.Field("lastName").Kind != formerror.ValueMissing {
		t.Fatalf("unexpected payload %+v", res.payload)
	}
	if len(session.records) != 0 {
		t.Fatalf("XHR submissions must not touch the session")
	}

	res = &fakeResponse{}
	valid := fakeRequest{method: http.MethodPost, xhr: true, body: field.Body{"firstName": "a", "lastName": "b"}}
	if _, err := f.Handle(ctx, valid, res); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	want := form.Result{Values: field.Values{"firstName": "stored"}, Success: true}
	if diff := cmp.Diff(want, res.payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if res.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.status)
	}
}

func TestHandleUpstreamErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("database down")
	f := newPersonForm(t, form.WithSetValues(func(context.Context, form.Request, field.Values) error {
		return boom
	}))
	res := &fakeResponse{}
	post := fakeRequest{method: http.MethodPost, path: "/", body: field.Body{"firstName": "a", "lastName": "b"}}
	if _, err := f.Handle(context.Background(), post, res); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if res.redirect != "" || res.status != 0 {
		t.Fatalf("nothing should be written on upstream errors")
	}

	getFails := newPersonForm(t, form.WithGetValues(func(context.Context, form.Request) (field.Values, error) {
		return nil, boom
	}))
	if _, err := getFails.Handle(context.Background(), fakeRequest{method: http.MethodGet}, &fakeResponse{}); !errors.Is(err, boom) {
		t.Fatalf("expected GetValues error, got %v", err)
	}
}

func TestHandleCustomHandlers(t *testing.T) {
	t.Parallel()

	var got error
	f := newPersonForm(t, form.WithErrorHandler(func(_ context.Context, _ *form.Form, _ *form.Handler, err error, _ form.Request, _ form.Response) error {
		got = err
		return nil
	}))
	post := fakeRequest{method: http.MethodPost, body: field.Body{}}
	if _, err := f.Handle(context.Background(), post, &fakeResponse{}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	var formErr *formerror.Error
	if !errors.As(got, &formErr) || !formErr.IsForm() {
		t.Fatalf("error handler should receive the form error, got %v", got)
	}
}

func TestHandleUnsupportedMethod(t *testing.T) {
	t.Parallel()

	_, err := newPersonForm(t).Handle(context.Background(), fakeRequest{method: http.MethodDelete}, &fakeResponse{})
	if !errors.Is(err, form.ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
}

func TestHandlerValidatesOnce(t *testing.T) {
	t.Parallel()

	f := newPersonForm(t)
	values := field.Values{"firstName": "a", "lastName": "b"}
	h := f.NewHandler(values, field.RenderOptions{})
	if !h.Valid() {
		t.Fatalf("expected valid handler")
	}
	values["firstName"] = ""
	if !h.Valid() || h.ValidationErrors() != nil {
		t.Fatalf("validation result should be memoized")
	}
	if h.Field("missing") != nil || h.Fieldset("missing") != nil {
		t.Fatalf("unknown lookups should return nil")
	}
	if len(h.Fields()) != 3 {
		t.Fatalf("expected three field handlers")
	}
}
