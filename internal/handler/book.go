package handler

import (
	"net/http"

	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/response"
	"github.com/librarycatalog/library-api/internal/service"
)

const (
	msgBooksListed  = "Libros obtenidos exitosamente"
	msgBookFound    = "Libro obtenido exitosamente"
	msgBookCreated  = "Libro creado exitosamente"
	msgBookUpdated  = "Libro actualizado exitosamente"
	msgBookDeleted  = "Libro eliminado exitosamente"
	msgSearchDone   = "Búsqueda completada exitosamente"
	msgStatsFetched = "Estadísticas obtenidas exitosamente"
)

// BookHandler serves the book endpoints of every API version. The versions
// differ only in their search handlers.
type BookHandler struct {
	books *service.BookService
	resp  *response.Writer
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(books *service.BookService, resp *response.Writer) *BookHandler {
	return &BookHandler{books: books, resp: resp}
}

// List handles GET /books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgBooksListed, books)
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgBookFound, book)
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := requestBody[model.CreateBookRequest](w, r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	book, err := h.books.Create(r.Context(), req)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusCreated, msgBookCreated, book)
}

// Update handles PUT /books/{id} as a partial update.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	req, err := requestBody[model.UpdateBookRequest](w, r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	book, err := h.books.Update(r.Context(), id, req)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgBookUpdated, book)
}

// Delete handles DELETE /books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgBookDeleted, nil)
}

// Stats handles GET /books/stats.
func (h *BookHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.books.Stats(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgStatsFetched, stats)
}

// SearchByTitle handles the legacy GET /api/books/search?title=.
func (h *BookHandler) SearchByTitle(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.SearchByTitle(r.Context(), r.URL.Query().Get("title"))
	h.searchResult(w, r, books, err)
}

// SearchByAuthor handles the legacy GET /api/books/search/author?author=.
func (h *BookHandler) SearchByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.SearchByAuthor(r.Context(), r.URL.Query().Get("author"))
	h.searchResult(w, r, books, err)
}

// Search handles the unified GET /api/v1/books/search?title=&author=.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books, err := h.books.Search(r.Context(), model.SearchQuery{
		Title:  q.Get("title"),
		Author: q.Get("author"),
	})
	h.searchResult(w, r, books, err)
}

func (h *BookHandler) searchResult(w http.ResponseWriter, r *http.Request, books []model.Book, err error) {
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgSearchDone, books)
}
