package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-dashboard/internal"
)

var _ = Describe("AppError", func() {
	It("matches copies made with WithCause", func() {
		cause := fmt.Errorf("row locked")
		wrapped := internal.ErrBudgetNotFound.WithCause(cause)

		Expect(errors.Is(wrapped, internal.ErrBudgetNotFound)).To(BeTrue())
		Expect(errors.Is(wrapped, cause)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrTransactionNotFound)).To(BeFalse())
		Expect(internal.ErrBudgetNotFound.Cause).To(BeNil(), "sentinel must stay untouched")

		appErr, ok := internal.IsAppError(fmt.Errorf("ctx: %w", wrapped))
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("renders field messages", func() {
		err := internal.NewValidationFieldError("amount", "amount must be positive", internal.ErrCodeInvalidAmount)
		Expect(err.Error()).To(Equal("amount must be positive"))
		Expect(err.Code).To(Equal(internal.ErrCodeValidationFailed))

		multi := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "title", Message: "title is required"},
				{Field: "date", Message: "date is required"},
			}})
		Expect(multi.GetDetailedMessage()).To(Equal("title is required; date is required"))

		status, body := internal.NewInternalError("boom", errors.New("db down")).ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(BeAssignableToTypeOf(internal.Response{}))
	})
})

var _ = Describe("Session", func() {
	It("travels through the context", func() {
		ctx := internal.ContextWithSession(context.Background(), &internal.Session{UserID: 7, Email: "a@b.co"})
		Expect(internal.IsAuthenticated(ctx)).To(BeTrue())
		Expect(internal.UserIDFromContext(ctx)).To(BeEquivalentTo(7))

		Expect(internal.IsAuthenticated(context.Background())).To(BeFalse())
		Expect(internal.UserIDFromContext(context.Background())).To(BeZero())
	})

	It("checks permissions", func() {
		admin := &internal.Session{UserID: 1, Permissions: []string{internal.PermissionAdmin, internal.PermissionManageCategories}}
		member := &internal.Session{UserID: 2}

		Expect(admin.HasAnyPermission(internal.PermissionManageCategories)).To(BeTrue())
		Expect(admin.HasAnyPermission("delete_everything", internal.PermissionAdmin)).To(BeTrue())
		Expect(member.HasAnyPermission(internal.PermissionManageCategories)).To(BeFalse())
		Expect(member.HasAnyPermission()).To(BeFalse())
	})
})
