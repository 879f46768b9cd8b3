package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/storage"
)

// existenceChecker — минимальный контракт проверки существования записи.
// Ему удовлетворяют Exists-методы репозиториев обоих хранилищ.
type existenceChecker func(ctx context.Context, id int) (bool, error)

// checkExists — fail-closed обёртка: любая ошибка хранилища трактуется как
// "не существует", с предупреждением в лог. Привязки к несуществующим или
// непроверяемым ссылкам не проходят.
func checkExists(ctx context.Context, logger *slog.Logger, entity string, id int, check existenceChecker) bool {
	ok, err := check(ctx, id)
	if err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "existence check failed, treating as absent",
				slog.String("entity", entity),
				slog.Int("id", id),
				slog.Any("error", err))
		}
		return false
	}
	return ok
}

func validateEventDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidationFailed)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date (%s) must be before end date (%s)",
			ErrEventInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// eventOpen: событие открыто для заявок и изменения составов строго до
// даты начала.
func eventOpen(event *models.Event, now time.Time) bool {
	return now.Before(event.StartDate)
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateVenuePhotoURL(venue *models.Venue, uploader storage.FileUploader) {
	if venue != nil && venue.PhotoKey != nil && *venue.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*venue.PhotoKey)
		if url != "" {
			venue.PhotoURL = &url
		}
	}
}

// GetExtensionFromContentType используется загрузкой логотипов и фото площадок.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: '%s'", contentType)
	}
}
