package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dctx "github.com/godwinide/teslastockinvestment/internal/context"
	"github.com/godwinide/teslastockinvestment/internal/mocks"
	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func kycTestFixtures() (*models.User, *models.Account) {
	user := &models.User{
		ID:        "user-1",
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
	}
	account := &models.Account{
		ID:       "account-1",
		UserID:   "user-1",
		Balance:  decimal.NewFromInt(100),
		Currency: "$",
	}
	return user, account
}

func TestHandleSubmitKyc_NoFilesRejected(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockAccountRepo := new(mocks.MockAccountRepo)
	mockUploader := new(mocks.MockUploader)

	user, account := kycTestFixtures()
	mockAccountRepo.On("GetByUserID", "user-1").Return(account, true, nil)

	handler := NewKycHandler(&KycHandler{
		UserRepo:    mockUserRepo,
		AccountRepo: mockAccountRepo,
		Uploader:    mockUploader,
		ErrHandler:  newTestErrHandler(),
	})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", "/dashboard/submit-kyc", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = dctx.ContextSetAuthenticatedUser(req, user)

	rr := httptest.NewRecorder()
	handler.HandleSubmitKyc(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "No files were uploaded")

	mockUserRepo.AssertNotCalled(t, "SubmitKyc", mock.Anything, mock.Anything)
	mockUploader.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSubmitKyc_PartialDocumentsAccepted(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockAccountRepo := new(mocks.MockAccountRepo)
	mockUploader := new(mocks.MockUploader)

	user, account := kycTestFixtures()
	mockAccountRepo.On("GetByUserID", "user-1").Return(account, true, nil)
	mockUploader.On("UploadFile", mock.Anything, mock.Anything, "kyc").
		Return("https://files.example.com/kyc/id-proof.png", nil)
	mockUserRepo.On("SubmitKyc", "user-1", mock.MatchedBy(func(docs *repository.KycDocuments) bool {
		return docs.IDProof != "" && docs.AddressProof == "" && docs.Selfie == ""
	})).Return(nil)

	handler := NewKycHandler(&KycHandler{
		UserRepo:    mockUserRepo,
		AccountRepo: mockAccountRepo,
		Uploader:    mockUploader,
		ErrHandler:  newTestErrHandler(),
	})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("idProof", "id.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", "/dashboard/submit-kyc", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = dctx.ContextSetAuthenticatedUser(req, user)

	rr := httptest.NewRecorder()
	handler.HandleSubmitKyc(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	require.Equal(t, true, response["success"])
	require.True(t, strings.Contains(response["message"].(string), "under review"))

	mockUserRepo.AssertExpectations(t)
	mockUploader.AssertExpectations(t)
}
