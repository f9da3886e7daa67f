package go_polyquery

import (
	"fmt"
	"strings"

	"github.com/PolyQuery/go-polyquery/internal/adapter"
	"github.com/PolyQuery/go-polyquery/service"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Engine tags. The relational family shares one adapter and differs only in
// which gorm connection it binds to; mongodb selects the document adapter.
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineMariaDB  = "mariadb"
	EngineMSSQL    = "mssql"
	EngineMongoDB  = "mongodb"
)

// DefaultSQLConnection is the binding name used when the configuration does
// not select one.
const DefaultSQLConnection = "default"

var relationalEngines = map[string]bool{
	EngineSQLite:   true,
	"sqlite3":      true,
	EnginePostgres: true,
	EngineMySQL:    true,
	EngineMariaDB:  true,
	EngineMSSQL:    true,
}

func isDocumentEngine(tag string) bool {
	return tag == EngineMongoDB || tag == "mongo"
}

// Config selects the default engine and the named relational binding.
// LoadConfig fills it from the environment; zero values fall back to the
// teacher-and-tested defaults in New.
type Config struct {
	// Name identifies this facade instance when it is registered on a host
	// application (log prefixes, accessor naming). Purely informational here.
	Name string

	// Engine is the default engine tag for Query and NewBuilder.
	Engine string

	// SQLConnection names the relational binding in Dependencies.SQL.
	SQLConnection string
}

// Dependencies carries the backend clients. They are owned and
// lifecycle-managed by the caller; this package only borrows them.
type Dependencies struct {
	SQL      map[string]*gorm.DB
	Document *mongo.Database
}

// QueryService dispatches Builders to the relational or document adapter
// based on the configured engine.
type QueryService struct {
	cfg  Config
	deps Dependencies
}

func New(cfg Config, deps Dependencies) (*QueryService, error) {
	if cfg.Name == "" {
		cfg.Name = "query"
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineSQLite
	}
	cfg.Engine = strings.ToLower(cfg.Engine)
	if cfg.SQLConnection == "" {
		cfg.SQLConnection = DefaultSQLConnection
	}
	if !isDocumentEngine(cfg.Engine) && !relationalEngines[cfg.Engine] {
		return nil, fmt.Errorf("unsupported engine %q", cfg.Engine)
	}
	return &QueryService{cfg: cfg, deps: deps}, nil
}

// Options overrides per-Builder settings.
type Options struct {
	Engine string
}

// NewBuilder constructs a Builder for the effective engine. Adapter
// construction errors (missing clients) surface here, before any chaining.
func (s *QueryService) NewBuilder(opts ...Options) (*Builder, error) {
	engine := s.cfg.Engine
	if len(opts) > 0 && opts[0].Engine != "" {
		engine = strings.ToLower(opts[0].Engine)
	}
	runner, err := s.runnerFor(engine)
	if err != nil {
		return nil, err
	}
	return newBuilder(runner), nil
}

func (s *QueryService) runnerFor(engine string) (service.Runner, error) {
	if isDocumentEngine(engine) {
		a, err := adapter.NewDocument(adapter.NewMongoStore(s.deps.Document))
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	if !relationalEngines[engine] {
		return nil, fmt.Errorf("unsupported engine %q", engine)
	}
	a, err := adapter.NewSQL(s.deps.SQL[s.cfg.SQLConnection])
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Table starts a relational query on the named table, regardless of the
// configured default engine.
func (s *QueryService) Table(name string) (*Builder, error) {
	runner, err := adapter.NewSQL(s.deps.SQL[s.cfg.SQLConnection])
	if err != nil {
		return nil, err
	}
	return newBuilder(runner).From(name), nil
}

// Collection starts a document-store query on the named collection.
func (s *QueryService) Collection(name string) (*Builder, error) {
	runner, err := adapter.NewDocument(adapter.NewMongoStore(s.deps.Document))
	if err != nil {
		return nil, err
	}
	return newBuilder(runner).From(name), nil
}

// Query starts a query on the configured default engine, bound to the named
// table or collection.
func (s *QueryService) Query(name string) (*Builder, error) {
	b, err := s.NewBuilder()
	if err != nil {
		return nil, err
	}
	return b.From(name), nil
}
