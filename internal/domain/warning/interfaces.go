package warning

import "context"

// Repository provides persistence for warnings.
type Repository interface {
	Create(ctx context.Context, w *Warning) error
	ListByStudent(ctx context.Context, studentID string) ([]Warning, error)
}
