package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/customer/mocks"
	"hotel/internal/domains/customer/model"
	"hotel/internal/domains/customer/model/dto"
	"hotel/internal/domains/customer/service"
	cacheMocks "hotel/shared/cache/mocks"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

type fixture struct {
	repo  *mocks.MockCustomer
	cache *cacheMocks.MockRedisCache
	svc   service.Customer
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := mocks.NewMockCustomer(ctrl)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return fixture{
		repo:  repo,
		cache: redisCache,
		svc:   service.New(repo, &config.Config{}, redisCache, otelMocks.NewOtel()),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestCustomerService_Create(t *testing.T) {
	req := dto.CreateCustomerRequest{
		FullName:      "Meera Rao",
		Address:       "12 Lake Road",
		Age:           intPtr(34),
		ContactNumber: "9876543210",
	}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantID    int
		wantCode  int
	}{
		{
			name: "creates customer with store assigned id",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertReturning(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, customer model.Customer) (int, error) {
						assert.Zero(t, customer.ID)
						assert.Equal(t, 34, customer.Age)

						return 41, nil
					})
			},
			wantID: 41,
		},
		{
			name: "duplicate contact number",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "unique violation raced past the existence check",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertReturning(gomock.Any(), gomock.Any()).
					Return(0, fmt.Errorf("failed to insert data (customer): %w", &pq.Error{Code: "23505"}))
			},
			wantCode: 409,
		},
		{
			name: "insert failure",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertReturning(gomock.Any(), gomock.Any()).Return(0, errors.New("connection reset"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, res.ID)
			assert.Equal(t, "Meera Rao", res.FullName)
		})
	}
}

func TestCustomerService_Get(t *testing.T) {
	t.Run("cache miss loads from store", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "customer:get:5", gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{ID: 5, FullName: "Ravi", Age: 40}, nil)

		res, err := f.svc.Get(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, 5, res.ID)
		assert.Equal(t, 40, res.Age)
	})

	t.Run("missing customer", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{}, nil)

		_, err := f.svc.Get(context.Background(), 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, failure.ResourceNotFound)
		assert.Equal(t, "Customer details not found with id: 99", err.Error())
	})

	t.Run("cache hit skips store", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "customer:get:5", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				value.(*dto.CustomerResponse).ID = 5

				return nil
			})

		res, err := f.svc.Get(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, 5, res.ID)
	})
}

func TestCustomerService_GetAll(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 2}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Customer{{ID: 1}, {ID: 2}}, nil)

	res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, res.Customers, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestCustomerService_Update(t *testing.T) {
	existing := model.Customer{ID: 3, FullName: "Old Name", Address: "Old Street", Age: 29, ContactNumber: "9000000001"}

	tests := []struct {
		name      string
		req       dto.UpdateCustomerRequest
		setupMock func(f fixture)
		check     func(t *testing.T, res dto.CustomerResponse)
		wantCode  int
	}{
		{
			name:     "empty request",
			req:      dto.UpdateCustomerRequest{},
			wantCode: 400,
		},
		{
			name: "missing customer",
			req:  dto.UpdateCustomerRequest{Age: intPtr(30)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "only supplied fields change",
			req:  dto.UpdateCustomerRequest{Address: strPtr("New Street")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, model.FieldAddress)
						assert.NotContains(t, fields, model.FieldFullName)
						assert.NotContains(t, fields, model.FieldAge)

						return nil
					})
			},
			check: func(t *testing.T, res dto.CustomerResponse) {
				assert.Equal(t, "New Street", res.Address)
				assert.Equal(t, "Old Name", res.FullName)
				assert.Equal(t, 29, res.Age)
			},
		},
		{
			name: "contact number taken by another customer",
			req:  dto.UpdateCustomerRequest{ContactNumber: strPtr("9000000002")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "unchanged contact number skips uniqueness check",
			req:  dto.UpdateCustomerRequest{ContactNumber: strPtr("9000000001"), Age: intPtr(30)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.CustomerResponse) {
				assert.Equal(t, 30, res.Age)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Update(context.Background(), tt.req, existing.ID)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestCustomerService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		want      bool
		wantCode  int
	}{
		{
			name: "existing customer",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: true,
		},
		{
			name: "absent customer",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			want: false,
		},
		{
			name: "still referenced by a booking",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to delete data (customer): %w", &pq.Error{Code: "23503"}))
			},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			deleted, err := f.svc.Delete(context.Background(), 8)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, deleted)
		})
	}
}
