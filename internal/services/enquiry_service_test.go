package services

import (
	"context"
	"errors"
	"testing"

	"north_staffing_backend/internal/models"
)

func TestSubmitEnquiryValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   SubmitEnquiryRequest
		field string
	}{
		{"bad email", SubmitEnquiryRequest{Name: "Dana", Email: "not-an-email", Message: "hi"}, "email"},
		{"header in name", SubmitEnquiryRequest{Name: "Dana\r\nBcc: x@example.com", Email: "dana@example.com", Message: "hi"}, "name"},
		{"blank message", SubmitEnquiryRequest{Name: "Dana", Email: "dana@example.com", Message: "   "}, "message"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.enquiries.SubmitEnquiry(ctx, tc.req)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Fields[tc.field] == "" {
				t.Errorf("expected %s validation error, got %v", tc.field, err)
			}
		})
	}
}

func TestEnquiryWorkflow(t *testing.T) {
	forEachStore(t, func(t *testing.T, e *testEnv) {
		ctx := context.Background()
		phone := " +1 555 0100 "
		enquiry, err := e.enquiries.SubmitEnquiry(ctx, SubmitEnquiryRequest{
			Name: " Dana ", Email: "Dana@Example.com", Phone: &phone, Message: "We need ten servers in May.",
		})
		if err != nil {
			t.Fatal(err)
		}
		if enquiry.Status != models.EnquiryStatusNew || enquiry.Email != "dana@example.com" || enquiry.Name != "Dana" {
			t.Errorf("unexpected enquiry: %+v", enquiry)
		}
		if enquiry.Phone == nil || *enquiry.Phone != "+1 555 0100" {
			t.Errorf("phone not trimmed: %v", enquiry.Phone)
		}

		staffActor := Actor{UserID: 1, Role: models.RoleStaff}
		if _, err := e.enquiries.ListEnquiries(ctx, staffActor, nil); !errors.Is(err, ErrForbidden) {
			t.Errorf("staff listing: expected ErrForbidden, got %v", err)
		}

		responded, err := e.enquiries.UpdateEnquiryStatus(ctx, manager, enquiry.ID, "responded")
		if err != nil {
			t.Fatal(err)
		}
		if responded.Status != models.EnquiryStatusResponded {
			t.Errorf("expected responded, got %s", responded.Status)
		}
		if _, err := e.enquiries.UpdateEnquiryStatus(ctx, manager, enquiry.ID, "new"); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("responded->new: expected ErrInvalidTransition, got %v", err)
		}
		if _, err := e.enquiries.UpdateEnquiryStatus(ctx, manager, enquiry.ID, "archived"); !errors.Is(err, ErrValidation) {
			t.Errorf("unknown status: expected ErrValidation, got %v", err)
		}

		status := "responded"
		listed, err := e.enquiries.ListEnquiries(ctx, manager, &status)
		if err != nil || len(listed) != 1 {
			t.Fatalf("filtered list: %v %+v", err, listed)
		}
		status = "new"
		listed, _ = e.enquiries.ListEnquiries(ctx, manager, &status)
		if len(listed) != 0 {
			t.Errorf("no new enquiries expected: %+v", listed)
		}

		if err := e.enquiries.DeleteEnquiry(ctx, manager, enquiry.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("manager delete: expected ErrForbidden, got %v", err)
		}
		if err := e.enquiries.DeleteEnquiry(ctx, admin, enquiry.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := e.enquiries.GetEnquiry(ctx, manager, enquiry.ID); !errors.Is(err, ErrEnquiryNotFound) {
			t.Errorf("expected ErrEnquiryNotFound, got %v", err)
		}
	})
}
