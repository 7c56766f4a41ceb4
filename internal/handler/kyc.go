package handler

import (
	"io"
	"net/http"

	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/file"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/godwinide/teslastockinvestment/internal/response"
	"github.com/godwinide/teslastockinvestment/internal/stream"
)

const maxKycUploadBytes = 20 << 20

type KycHandler struct {
	UserRepo    repository.UserRepository
	AccountRepo repository.AccountRepository
	Uploader    file.Uploader
	Kafka       *stream.KafkaStream
	ErrHandler  *errHandler.ErrorHandler
}

func NewKycHandler(handler *KycHandler) *KycHandler {
	return &KycHandler{
		UserRepo:    handler.UserRepo,
		AccountRepo: handler.AccountRepo,
		Uploader:    handler.Uploader,
		Kafka:       handler.Kafka,
		ErrHandler:  handler.ErrHandler,
	}
}

// HandleSubmitKyc accepts the identity documents as multipart form data
// under the field names idProof, addressProof and selfie. At least one file
// must be present; documents already on record are kept when the matching
// field is omitted from a resubmission.
func (h *KycHandler) HandleSubmitKyc(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxKycUploadBytes)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	_, user, ok := loadAccount(w, r, h.AccountRepo, h.ErrHandler)
	if !ok {
		return
	}

	docs := &repository.KycDocuments{}

	uploads := []struct {
		field  string
		target *string
	}{
		{"idProof", &docs.IDProof},
		{"addressProof", &docs.AddressProof},
		{"selfie", &docs.Selfie},
	}

	uploaded := 0
	for _, upload := range uploads {
		doc, _, err := r.FormFile(upload.field)
		if err != nil {
			continue
		}

		url, err := h.uploadDocument(r, doc)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		*upload.target = url
		uploaded++
	}

	if uploaded == 0 {
		h.ErrHandler.FailedValidation(w, r, []string{"No files were uploaded. Please upload all required documents."})
		return
	}

	err = h.UserRepo.SubmitKyc(user.ID, docs)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	produceEvent(h.Kafka, stream.KycSubmittedTopic, &stream.AccountEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FirstName + " " + user.LastName,
	})

	message := "KYC documents uploaded successfully. Your verification is under review."
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *KycHandler) uploadDocument(r *http.Request, doc io.ReadCloser) (string, error) {
	defer doc.Close()
	return h.Uploader.UploadFile(r.Context(), doc, "kyc")
}
