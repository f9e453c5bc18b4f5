package formerror_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/formerror"
)

func TestFieldErrorSerialisesAsMessage(t *testing.T) {
	t.Parallel()

	err := formerror.New(formerror.ValueMissing, "This field is required")
	if err.Error() != "This field is required" || err.String() != err.Error() {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	payload, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("marshal: %v", marshalErr)
	}
	if string(payload) != `"This field is required"` {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestFormErrorSerialisesFields(t *testing.T) {
	t.Parallel()

	err := formerror.NewForm("This form contains errors", map[string]*formerror.Error{
		"firstName": formerror.New(formerror.ValueMissing, "This field is required"),
	})

	payload, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("marshal: %v", marshalErr)
	}
	want := `{"form":"This form contains errors","fields":{"firstName":"This field is required"}}`
	if string(payload) != want {
		t.Fatalf("payload mismatch\nwant: %s\n got: %s", want, payload)
	}

	var decoded formerror.Error
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(err.FieldMessages(), decoded.FieldMessages()); diff != "" {
		t.Fatalf("field messages mismatch (-want +got):\n%s", diff)
	}
	if !decoded.IsForm() || decoded.Message != err.Message {
		t.Fatalf("decoded form error lost its shape: %+v", decoded)
	}
}

func TestErrorsAsRecoversFormError(t *testing.T) {
	t.Parallel()

	var wrapped error = formerror.NewForm("Oops", nil)
	var target *formerror.Error
	if !errors.As(wrapped, &target) {
		t.Fatalf("expected errors.As to match")
	}
	if target.Field("missing") != nil {
		t.Fatalf("expected nil for unknown field")
	}
	if ids := target.FieldIDs(); ids != nil {
		t.Fatalf("expected no field ids, got %v", ids)
	}
}
