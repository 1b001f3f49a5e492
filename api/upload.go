package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kuntur-store/core/order"
	"kuntur-store/internal/logging"
)

// UploadConfig controls comprobante (payment receipt) storage
type UploadConfig struct {
	// Directory is where uploaded files land on disk
	Directory string

	// MaxSizeBytes caps the accepted file size
	MaxSizeBytes int64

	// PublicBaseURL prefixes the stored comprobante URL
	PublicBaseURL string
}

// Accepted comprobante content types and their stored extensions
var comprobanteExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// handleUploadComprobante handles POST /orders/{id}/comprobante.
// Multipart form with a "file" part and a "payment_method" field of
// "transfer" or "usdt". Uploading a comprobante marks the order paid.
func (s *Server) handleUploadComprobante(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		s.writeError(w, err.Error(), nil, http.StatusBadRequest)
		return
	}

	existing, err := s.handler.store.GetOrder(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if existing.PaymentStatus == order.PaymentPaid {
		s.writeError(w, "order is already paid", nil, http.StatusConflict)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxSizeBytes+1024)
	if err := r.ParseMultipartForm(s.uploads.MaxSizeBytes); err != nil {
		s.writeError(w, "file exceeds the maximum size of 5MB", nil, http.StatusRequestEntityTooLarge)
		return
	}

	method, ok := paymentMethodFromForm(r.FormValue("payment_method"))
	if !ok {
		s.writeError(w, "payment_method must be transfer or usdt", nil, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, "a file part named 'file' is required", nil, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > s.uploads.MaxSizeBytes {
		s.writeError(w, "file exceeds the maximum size of 5MB", nil, http.StatusRequestEntityTooLarge)
		return
	}

	// Sniff the real content type; the client-declared header is not
	// trusted.
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	contentType := http.DetectContentType(head[:n])
	ext, ok := comprobanteExtensions[normalizeContentType(contentType)]
	if !ok {
		s.writeError(w, "file must be a JPEG, PNG, WebP or PDF", nil, http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.writeDomainError(w, err)
		return
	}

	name := fmt.Sprintf("%s-%d%s", existing.Number, s.handler.now().UnixMilli(), ext)
	if err := s.saveComprobante(name, file); err != nil {
		logging.Error("comprobante not saved", zap.String("order_id", id.String()), zap.Error(err))
		s.writeError(w, "could not store the file", nil, http.StatusInternalServerError)
		return
	}

	url := strings.TrimSuffix(s.uploads.PublicBaseURL, "/") + "/comprobantes/" + name
	updated, err := s.handler.UpdatePayment(r.Context(), id, &UpdatePaymentRequest{
		PaymentStatus:  order.PaymentPaid,
		PaymentMethod:  method,
		ComprobanteURL: url,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	in := &order.Interaction{
		ID:          uuid.New(),
		OrderID:     id,
		Type:        order.InteractionReceiptUploaded,
		Description: "Comprobante uploaded (" + string(method) + ")",
		Metadata:    map[string]interface{}{"url": url, "size_bytes": header.Size},
		CreatedAt:   s.handler.now().UTC(),
	}
	if err := s.handler.store.AddInteraction(r.Context(), in); err != nil {
		logging.Warn("interaction not recorded", zap.String("order_id", id.String()), zap.Error(err))
	}

	s.writeJSON(w, map[string]interface{}{
		"order":           updated,
		"comprobante_url": url,
	}, http.StatusOK)
}

func (s *Server) saveComprobante(name string, src io.Reader) error {
	if err := os.MkdirAll(s.uploads.Directory, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(s.uploads.Directory, name))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

// paymentMethodFromForm maps the form's short method names onto the
// stored payment methods
func paymentMethodFromForm(v string) (order.PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "transfer":
		return order.MethodBankBOB, true
	case "usdt":
		return order.MethodUSDTTRC20, true
	default:
		return "", false
	}
}

// normalizeContentType strips parameters like "; charset=utf-8"
func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
