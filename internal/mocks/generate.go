// Package mocks provides mock implementations of the booking repository ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	jobs := mocks.NewMockJobRepository(ctrl)
//	jobs.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/dtapi/booking-api/internal/core JobRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/dtapi/booking-api/internal/core UserRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=translator_job_repository_mock.go github.com/dtapi/booking-api/internal/core TranslatorJobRepository
