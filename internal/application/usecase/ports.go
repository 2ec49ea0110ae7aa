package usecase

import "context"

// ImageFile archivo de imagen ya extraído del multipart por la capa HTTP.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImageStore puerto hacia el Media Host externo. Los errores de UploadMany se
// propagan (disparan limpieza compensatoria); los de DeleteMany los registra
// y traga el caller, nunca llegan al cliente.
type ImageStore interface {
	UploadMany(ctx context.Context, files []ImageFile, folder string) ([]string, error)
	DeleteMany(ctx context.Context, urls []string) error
}
