package domain

import "context"

//go:generate mockgen -source=preferences_repository.go -destination=preferences_repository_mock.go -package=domain

// PreferencesRepository is the durable storage collaborator. Load returns
// ErrPreferencesNotFound when no aggregate has been saved yet.
type PreferencesRepository interface {
	LoadPreferences(ctx context.Context) (*NotificationPreferences, error)
	SavePreferences(ctx context.Context, prefs *NotificationPreferences) error
}
