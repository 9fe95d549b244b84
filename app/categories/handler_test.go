package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandyspace/catalog-manager/models"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories []models.Category
	Calls      int
}

func (m *MockCategoryRepo) ListCategories(_ context.Context) []models.Category {
	m.Calls++
	return m.Categories
}

// --- Tests: GET /categories ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success with multiple categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Categories: []models.Category{
						{ID: "41", Name: "Robes", Image: "https://images.example/robes.jpg"},
						{ID: "44", Name: "Chaussures", Image: "https://images.example/chaussures.jpg"},
					},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 2)
				assert.Equal(t, "41", resp[0].ID)
				assert.Equal(t, "Robes", resp[0].Name)
				assert.Equal(t, "https://images.example/chaussures.jpg", resp[1].Image)
			},
		},
		{
			name: "Built-in catalog",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: models.DefaultCategories()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 7)
				assert.Equal(t, "Sacs à main", resp[6].Name)
			},
		},
		{
			name: "Empty list is an empty array",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `[]`, rec.Body.String())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := tc.mockRepoSetup()
			handler := NewCategoryHandler(repo)

			req := httptest.NewRequest(http.MethodGet, "/categories", nil)
			rec := httptest.NewRecorder()

			handler.HandleGetAll(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, 1, repo.Calls)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}
