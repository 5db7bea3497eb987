package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors to the JSON envelope.
// Anything unrecognised is logged and hidden behind a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		notFound     *apperror.NotFoundError
		insufficient *apperror.InsufficientSeatsError
		validation   *apperror.ValidationError
		integrity    *apperror.DataIntegrityError
		concurrency  *apperror.ConcurrencyError
		conflict     *apperror.ConflictError
		unauthorized *apperror.UnauthorizedError
	)

	switch {
	case errors.As(err, &validation):
		log.Warn(operation+" validation failed", zap.Error(err))
		if len(validation.Fields) > 0 {
			utils.ResponseBadRequest(w, "Validation failed", validation.Fields)
			return
		}
		utils.ResponseBadRequest(w, validation.Message, nil)

	case errors.As(err, &notFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, notFound.Error())

	case errors.As(err, &insufficient):
		log.Info(operation+" rejected - not enough seats",
			zap.Int("requested", insufficient.Requested),
			zap.Int("available", insufficient.Available),
		)
		utils.ResponseConflict(w, "Not enough seats available", map[string]int{
			"available_seats": insufficient.Available,
		})

	case errors.As(err, &conflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, conflict.Message, nil)

	case errors.As(err, &unauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, unauthorized.Message)

	case errors.As(err, &concurrency):
		log.Warn(operation+" failed - contention", zap.Error(err))
		utils.ResponseRetryLater(w, "The showtime is busy, please retry")

	case errors.As(err, &integrity):
		log.Error(operation+" failed - data integrity", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeAndValidate reads a JSON body into dst and runs the struct tags.
// It writes the 400 itself and reports false when the handler must stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func parseIDParam(w http.ResponseWriter, value, name string) (int64, bool) {
	id, err := utils.ParseID(value)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name+" ID", map[string]string{"id": "Must be a positive integer"})
		return 0, false
	}
	return id, true
}
