package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/pipeline"
	"github.com/mindweave/mindweave-server/internal/service"
)

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.ResolvedDisplayName(),
		CreatedAt:   u.CreatedAt,
	}
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
}

func newSessionResponse(s service.Session) sessionResponse {
	return sessionResponse{
		User:         newUserResponse(s.User),
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
		TokenType:    "Bearer",
	}
}

type entryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	Mood      model.Mood `json:"mood"`
	CreatedAt time.Time  `json:"created_at"`
}

func newEntryResponse(e model.Entry) entryResponse {
	return entryResponse{ID: e.ID, Content: e.Content, Mood: e.Mood, CreatedAt: e.CreatedAt}
}

func newEntriesResponse(entries []model.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newEntryResponse(e))
	}
	return out
}

type reflectionResponse struct {
	ID          uuid.UUID      `json:"id"`
	EntryID     *uuid.UUID     `json:"journal_entry_id"`
	Content     string         `json:"content"`
	Type        string         `json:"reflection_type"`
	GeneratedAt time.Time      `json:"generated_at"`
	Entry       *entryResponse `json:"journal_entry"`
}

func newReflectionResponse(r model.Reflection) reflectionResponse {
	out := reflectionResponse{
		ID:          r.ID,
		EntryID:     r.EntryID,
		Content:     r.Content,
		Type:        r.Type,
		GeneratedAt: r.GeneratedAt,
	}
	if r.Entry != nil {
		out.Entry = &entryResponse{
			ID:        r.Entry.ID,
			Content:   r.Entry.Content,
			Mood:      r.Entry.Mood,
			CreatedAt: r.Entry.CreatedAt,
		}
	}
	return out
}

func newReflectionsResponse(reflections []model.Reflection) []reflectionResponse {
	out := make([]reflectionResponse, 0, len(reflections))
	for _, r := range reflections {
		out = append(out, newReflectionResponse(r))
	}
	return out
}

// submissionForm echoes the submitted values so clients can restore the form after a failure.
type submissionForm struct {
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

type submissionResponse struct {
	State           pipeline.State `json:"state"`
	Entry           *entryResponse `json:"entry,omitempty"`
	Reflection      string         `json:"reflection,omitempty"`
	ReflectionSaved bool           `json:"reflection_saved"`
	Fallback        bool           `json:"fallback"`
}

type submissionErrorResponse struct {
	Error string         `json:"error"`
	State pipeline.State `json:"state,omitempty"`
	Form  submissionForm `json:"form"`
}

func newSubmissionResponse(res pipeline.Result) submissionResponse {
	out := submissionResponse{
		State:           res.State,
		Reflection:      res.Reflection,
		ReflectionSaved: res.SavedReflection != nil,
		Fallback:        res.Fallback,
	}
	if res.State.EntrySaved() {
		e := newEntryResponse(res.Entry)
		out.Entry = &e
	}
	return out
}

// freePlan is reported for users without a subscription row.
const freePlan model.SubscriptionStatus = "free"

type subscriptionResponse struct {
	Status             model.SubscriptionStatus `json:"status"`
	Active             bool                     `json:"active"`
	Pending            bool                     `json:"pending"`
	ProductName        string                   `json:"product_name,omitempty"`
	PriceID            string                   `json:"price_id,omitempty"`
	CurrentPeriodStart *time.Time               `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time               `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool                     `json:"cancel_at_period_end"`
	PaymentMethodBrand string                   `json:"payment_method_brand,omitempty"`
	PaymentMethodLast4 string                   `json:"payment_method_last4,omitempty"`
}

func newSubscriptionResponse(s service.SubscriptionStatus) subscriptionResponse {
	sub := s.Subscription
	status := sub.Status
	if status == "" {
		status = freePlan
	}
	return subscriptionResponse{
		Status:             status,
		Active:             s.Active,
		Pending:            s.Pending,
		ProductName:        s.ProductName,
		PriceID:            sub.PriceID,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		PaymentMethodBrand: sub.PaymentMethodBrand,
		PaymentMethodLast4: sub.PaymentMethodLast4,
	}
}
