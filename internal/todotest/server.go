// Package todotest provides an in-memory todo collection server for tests.
package todotest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Makepad-fr/tada-remote/internal/model"
)

// Call is one request the server received.
type Call struct {
	Method string
	Path   string
	Body   model.Draft
}

// Server serves /todos the way the real backend does, backed by a map.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	todos  map[model.ID]model.Todo
	nextID model.ID
	calls  []Call
	fail   map[string]int // method -> status for the next request with that method
}

// New starts a server seeded with todos and closes it when the test ends.
// Seeded ids are kept; new records get ids above the highest seed.
func New(t testing.TB, seed ...model.Todo) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		todos:  make(map[model.ID]model.Todo),
		nextID: 1,
		fail:   make(map[string]int),
	}
	for _, td := range seed {
		s.todos[td.ID] = td
		if td.ID >= s.nextID {
			s.nextID = td.ID + 1
		}
	}

	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.journal, s.injectFailure)

	r.GET("/todos", s.list)
	r.POST("/todos", s.create)
	r.GET("/todos/:id", s.get)
	r.PUT("/todos/:id", s.update)
	r.DELETE("/todos/:id", s.delete)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// FailNext makes the next request with method answer status instead of
// being served.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = status
}

// Todos returns the stored records ordered by id.
func (s *Server) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Calls returns every request seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// LastCall returns the most recent non-GET request, if any.
func (s *Server) LastCall() (Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].Method != http.MethodGet {
			return s.calls[i], true
		}
	}
	return Call{}, false
}

func (s *Server) journal(c *gin.Context) {
	call := Call{Method: c.Request.Method, Path: c.Request.URL.Path}
	if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
		var d model.Draft
		if err := c.ShouldBindBodyWith(&d, binding.JSON); err == nil {
			call.Body = d
		}
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFailure(c *gin.Context) {
	s.mu.Lock()
	status, ok := s.fail[c.Request.Method]
	delete(s.fail, c.Request.Method)
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	s.mu.Lock()
	todos := s.sortedLocked()
	s.mu.Unlock()
	if len(todos) == 0 {
		// the real backend encodes an empty result as null
		c.Data(http.StatusOK, "application/json", []byte("null"))
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (s *Server) create(c *gin.Context) {
	var d model.Draft
	if err := c.ShouldBindBodyWith(&d, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	td := model.Todo{ID: s.nextID, Title: d.Title, Description: d.Description, Completed: d.Completed}
	s.todos[td.ID] = td
	s.nextID++
	s.mu.Unlock()
	c.JSON(http.StatusCreated, td)
}

func (s *Server) get(c *gin.Context) {
	id, ok := s.param(c)
	if !ok {
		return
	}
	s.mu.Lock()
	td, found := s.todos[id]
	s.mu.Unlock()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	c.JSON(http.StatusOK, td)
}

func (s *Server) update(c *gin.Context) {
	id, ok := s.param(c)
	if !ok {
		return
	}
	var d model.Draft
	if err := c.ShouldBindBodyWith(&d, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	// the real backend runs an UPDATE ... WHERE id and acknowledges even when
	// nothing matched
	if _, found := s.todos[id]; found {
		s.todos[id] = model.Todo{ID: id, Title: d.Title, Description: d.Description, Completed: d.Completed}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Todo updated"})
}

func (s *Server) delete(c *gin.Context) {
	id, ok := s.param(c)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.todos, id)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}

func (s *Server) param(c *gin.Context) (model.ID, bool) {
	n, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return model.ID(n), true
}

func (s *Server) sortedLocked() []model.Todo {
	out := make([]model.Todo, 0, len(s.todos))
	for _, td := range s.todos {
		out = append(out, td)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
