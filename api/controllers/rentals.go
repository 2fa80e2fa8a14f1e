package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasvieira/alugueja-backend/api/responses"
	"github.com/lucasvieira/alugueja-backend/api/validators"
	"github.com/lucasvieira/alugueja-backend/internal/rentals"
	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/logger"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

type lineItemRequest struct {
	EquipmentID  uuid.UUID   `json:"equipment_id" validate:"required"`
	Qty          int         `json:"qty" validate:"required,gt=0"`
	AssetUnitIDs []uuid.UUID `json:"asset_unit_ids"`
}

type createRentalRequest struct {
	ClientID uuid.UUID         `json:"client_id" validate:"required"`
	Items    []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	Price    decimal.Decimal   `json:"price"`
	StartsAt time.Time         `json:"starts_at" validate:"required"`
	EndsAt   time.Time         `json:"ends_at" validate:"required"`
}

type scheduleDeliveryRequest struct {
	ExpectedAt time.Time `json:"expected_at" validate:"required"`
}

type renewRentalRequest struct {
	NewEndsAt time.Time        `json:"new_ends_at" validate:"required"`
	NewPrice  *decimal.Decimal `json:"new_price"`
}

func RentalCreate(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRentalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := rentals.CreateInput{
			ClientID: req.ClientID,
			Price:    req.Price,
			StartsAt: req.StartsAt,
			EndsAt:   req.EndsAt,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, rentals.LineItemInput{
				EquipmentID:  item.EquipmentID,
				Qty:          item.Qty,
				AssetUnitIDs: item.AssetUnitIDs,
			})
		}

		rental, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rental)
	}
}

func RentalList(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		onlyActive, err := validators.ParseQueryBool(r, "onlyActive", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), rentals.ListParams{
			OnlyActive: onlyActive,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func RentalDetail(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "rentalId"), "rentalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rental)
	}
}

func RentalScheduleDelivery(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "rentalId"), "rentalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req scheduleDeliveryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := svc.ScheduleDelivery(r.Context(), id, req.ExpectedAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rental)
	}
}

func RentalConfirmDelivery(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return rentalTransition(svc.ConfirmDelivery, logg)
}

func RentalConfirmPayment(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return rentalTransition(svc.ConfirmPayment, logg)
}

func RentalConfirmPickup(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return rentalTransition(svc.ConfirmPickup, logg)
}

func RentalMarkInvoiceIssued(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return rentalTransition(svc.MarkInvoiceIssued, logg)
}

func RentalRenew(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "rentalId"), "rentalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req renewRentalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := svc.Renew(r.Context(), rentals.RenewInput{
			RentalID:  id,
			NewEndsAt: req.NewEndsAt,
			NewPrice:  req.NewPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rental)
	}
}

func RentalDelete(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "rentalId"), "rentalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type rentalTransitionFn func(ctx context.Context, id uuid.UUID) (*models.Rental, error)

func rentalTransition(fn rentalTransitionFn, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "rentalId"), "rentalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := fn(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rental)
	}
}
