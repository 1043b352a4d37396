package httptransport

import (
	"io/fs"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"spot/internal/upload"
)

// filesOnly hides directories so the file server never renders an index.
type filesOnly struct {
	http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// uploadsHandler serves stored uploads and answers everything else with the
// JSON not-found body.
func uploadsHandler(dir string) http.HandlerFunc {
	root := filesOnly{http.Dir(dir)}
	files := http.StripPrefix(upload.PublicPrefix+"/", http.FileServer(root))
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := root.Open(path.Clean("/" + chi.URLParam(r, "*")))
		if err != nil {
			writeNotFound(w, r)
			return
		}
		_ = file.Close()
		files.ServeHTTP(w, r)
	}
}
