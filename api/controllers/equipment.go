package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lucasvieira/alugueja-backend/api/responses"
	"github.com/lucasvieira/alugueja-backend/api/validators"
	"github.com/lucasvieira/alugueja-backend/internal/availability"
	"github.com/lucasvieira/alugueja-backend/internal/catalog"
	"github.com/lucasvieira/alugueja-backend/pkg/logger"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

type assetUnitRequest struct {
	Code        string  `json:"code" validate:"required"`
	Description *string `json:"description"`
}

type createEquipmentRequest struct {
	Name            string             `json:"name" validate:"required"`
	Category        string             `json:"category"`
	LegacyAssetCode *string            `json:"legacy_asset_code"`
	DefaultPrice    decimal.Decimal    `json:"default_price"`
	OwnedQty        int                `json:"owned_qty" validate:"min=0"`
	Units           []assetUnitRequest `json:"units" validate:"omitempty,dive"`
}

type updateEquipmentRequest struct {
	Name            *string             `json:"name"`
	Category        *string             `json:"category"`
	LegacyAssetCode *string             `json:"legacy_asset_code"`
	DefaultPrice    *decimal.Decimal    `json:"default_price"`
	OwnedQty        *int                `json:"owned_qty"`
	Units           *[]assetUnitRequest `json:"units" validate:"omitempty,dive"`
}

func toUnitInputs(units []assetUnitRequest) []catalog.UnitInput {
	out := make([]catalog.UnitInput, 0, len(units))
	for _, unit := range units {
		out = append(out, catalog.UnitInput{Code: unit.Code, Description: unit.Description})
	}
	return out
}

func EquipmentCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEquipmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		equipment, err := svc.Create(r.Context(), catalog.CreateInput{
			Name:            req.Name,
			Category:        req.Category,
			LegacyAssetCode: req.LegacyAssetCode,
			DefaultPrice:    req.DefaultPrice,
			OwnedQty:        req.OwnedQty,
			Units:           toUnitInputs(req.Units),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, equipment)
	}
}

func EquipmentList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), catalog.ListParams{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Limit:    limit,
			Cursor:   strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func EquipmentDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "equipmentId"), "equipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		equipment, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, equipment)
	}
}

// EquipmentAvailability exposes the live owned/committed/available counts.
func EquipmentAvailability(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "equipmentId"), "equipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.ForEquipment(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

func EquipmentUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "equipmentId"), "equipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateEquipmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateInput{
			Name:            req.Name,
			Category:        req.Category,
			LegacyAssetCode: req.LegacyAssetCode,
			DefaultPrice:    req.DefaultPrice,
			OwnedQty:        req.OwnedQty,
		}
		if req.Units != nil {
			units := toUnitInputs(*req.Units)
			input.Units = &units
		}

		equipment, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, equipment)
	}
}

func EquipmentDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "equipmentId"), "equipmentId")
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
