package factory

import (
	"strings"

	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/utils"
	"github.com/bsmider/reactorgen/logger"
)

// Naming conventions of the upstream stub generator. They are inferred from
// names only, so every rule lives here.
const (
	ServiceSuffix   = "Grpc"    // service wrapper types end with this
	ServiceWord     = "Service" // replaced by StubWord to find the stub prefix
	StubWord        = "Stub"
	FactoryPrefix   = "new" // stub factory methods: new...Stub / New...Stub
	FactorySuffix   = "Stub"
	RequestSuffix   = "Request"
	ClientSuffix    = "Client"
	ConfigSuffix    = "Config"
	ConfigPackage   = "config"
	ReactorPrefix   = "reactor"
	StubParamName   = "stub"
)

// Runtime packages generated code links against.
const (
	RuntimePackage = "github.com/bsmider/reactorgen/reactor"
	StubsPackage   = RuntimePackage + "/stubs"
	GrpcPackage    = "google.golang.org/grpc"
)

var (
	PromiseType          = model.Qualify(RuntimePackage, "Promise")
	ResponseReceiverType = model.Qualify(RuntimePackage, "ResponseReceiver")
	BridgeType           = model.Qualify(RuntimePackage, "Bridge")
	StubUtilsType        = model.Qualify(StubsPackage, "StubUtils")
	ClientConnType       = model.Qualify(GrpcPackage, "ClientConn")

	AbstractStubType         = model.Qualify(StubsPackage, "AbstractStub")
	AbstractFutureStubType   = model.Qualify(StubsPackage, "AbstractFutureStub")
	AbstractBlockingStubType = model.Qualify(StubsPackage, "AbstractBlockingStub")
	AbstractAsyncStubType    = model.Qualify(StubsPackage, "AbstractAsyncStub")
)

// receiverMethods is the single-shot callback capability set.
var receiverMethods = []string{"OnNext", "OnError", "OnCompleted"}

// Variant is the calling convention of a stub.
type Variant int

const (
	Generic Variant = iota
	Future
	Blocking
	Async
)

// variantOrder is the fixed classification priority.
var variantOrder = []struct {
	variant Variant
	base    string
}{
	{Future, AbstractFutureStubType},
	{Blocking, AbstractBlockingStubType},
	{Async, AbstractAsyncStubType},
}

func (v Variant) String() string {
	switch v {
	case Future:
		return "future"
	case Blocking:
		return "blocking"
	case Async:
		return "async"
	default:
		return "generic"
	}
}

// FactoryCall is the StubUtils function that builds a stub of this variant.
func (v Variant) FactoryCall() string {
	switch v {
	case Future:
		return "newFutureStub"
	case Blocking:
		return "newBlockingStub"
	case Async:
		return "newAsyncStub"
	default:
		return "newStub"
	}
}

// Shape is the concurrency shape of a method.
type Shape int

const (
	Unrecognized Shape = iota
	UnaryCallback
	StubFactory
)

func (s Shape) String() string {
	switch s {
	case UnaryCallback:
		return "unary-callback"
	case StubFactory:
		return "stub-factory"
	default:
		return "unrecognized"
	}
}

// ServiceDeclaration is a service wrapper and the methods it declares.
type ServiceDeclaration struct {
	Class   *model.Class
	Methods []RpcMethod
}

// StubDeclaration is the stub located for a service.
type StubDeclaration struct {
	Class   *model.Class
	Service *ServiceDeclaration
	Variant Variant
	Methods []RpcMethod
}

// RpcMethod is a method with its derived shape.
type RpcMethod struct {
	Method *model.Method
	Shape  Shape
}

// VariantClassifier maps a type to its stub variant. Results are cached per
// distinct type for the lifetime of the classifier, which is one pass.
type VariantClassifier struct {
	model model.Hierarchy
	cache map[string]Variant
	stubs map[string]bool
}

func NewVariantClassifier(h model.Hierarchy) *VariantClassifier {
	return &VariantClassifier{
		model: h,
		cache: make(map[string]Variant),
		stubs: make(map[string]bool),
	}
}

// Classify checks Future, then Blocking, then Async and falls back to Generic.
func (c *VariantClassifier) Classify(ref model.TypeRef) Variant {
	key := ref.String()
	if v, ok := c.cache[key]; ok {
		return v
	}
	v := Generic
	for _, candidate := range variantOrder {
		if c.model.IsSubtype(ref, candidate.base) {
			v = candidate.variant
			break
		}
	}
	c.cache[key] = v
	return v
}

// IsStub reports whether ref reaches any stub capability.
func (c *VariantClassifier) IsStub(ref model.TypeRef) bool {
	key := ref.String()
	if ok, cached := c.stubs[key]; cached {
		return ok
	}
	ok := c.model.IsSubtype(ref, AbstractStubType)
	c.stubs[key] = ok
	return ok
}

// Matcher recognizes services, stubs and method shapes in a model.
type Matcher struct {
	model      *model.Model
	classifier *VariantClassifier
	log        *zap.SugaredLogger
}

// NewMatcher creates a matcher for one pass over m.
func NewMatcher(m *model.Model, log *zap.SugaredLogger) *Matcher {
	if log == nil {
		log = logger.ComponentLogger("matcher")
	}
	return &Matcher{model: m, classifier: NewVariantClassifier(m), log: log}
}

// Classifier returns the pass-scoped variant classifier.
func (m *Matcher) Classifier() *VariantClassifier {
	return m.classifier
}

// Services returns the parsed top-level service wrappers in declaration order.
func (m *Matcher) Services() []*ServiceDeclaration {
	var out []*ServiceDeclaration
	for _, c := range m.model.TopLevel() {
		if c.Generated || !IsServiceName(c.SimpleName()) {
			continue
		}
		out = append(out, m.Service(c))
	}
	return out
}

// Service classifies the methods of a service wrapper.
func (m *Matcher) Service(c *model.Class) *ServiceDeclaration {
	svc := &ServiceDeclaration{Class: c}
	for _, method := range c.Methods {
		svc.Methods = append(svc.Methods, RpcMethod{Method: method, Shape: m.ClassifyServiceMethod(method)})
	}
	return svc
}

// LocateStub finds the first nested declaration whose simple name starts with
// the service name after replacing "Service" by "Stub".
func (m *Matcher) LocateStub(svc *ServiceDeclaration) (*StubDeclaration, error) {
	prefix := strings.ReplaceAll(svc.Class.SimpleName(), ServiceWord, StubWord)
	for _, n := range svc.Class.Nested {
		if !strings.HasPrefix(n.SimpleName(), prefix) {
			continue
		}
		stub := &StubDeclaration{
			Class:   n,
			Service: svc,
			Variant: m.classifier.Classify(n.Ref()),
		}
		for _, method := range n.Methods {
			stub.Methods = append(stub.Methods, RpcMethod{Method: method, Shape: m.ClassifyStubMethod(method)})
		}
		return stub, nil
	}
	return nil, &MissingStubError{Service: svc.Class.Name, Prefix: prefix}
}

// ClassifyStubMethod recognizes unary callback methods: no result, exactly
// one response receiver and at least one other "...Request" parameter.
func (m *Matcher) ClassifyStubMethod(method *model.Method) Shape {
	if !method.Returns.IsVoid() {
		return m.unrecognized(method, "returns a value")
	}
	receivers, requests := 0, 0
	for _, p := range method.Params {
		switch {
		case m.IsResponseReceiver(p.Type):
			receivers++
		case strings.HasSuffix(p.Type.SimpleName(), RequestSuffix):
			requests++
		}
	}
	if receivers != 1 || requests == 0 {
		return m.unrecognized(method, "not a single-receiver unary call")
	}
	return UnaryCallback
}

// ClassifyServiceMethod recognizes stub factories: new...Stub returning a stub.
func (m *Matcher) ClassifyServiceMethod(method *model.Method) Shape {
	rest, ok := utils.TrimPrefixFold(method.Name, FactoryPrefix)
	if !ok || !strings.HasSuffix(rest, FactorySuffix) {
		return m.unrecognized(method, "name is not new...Stub")
	}
	if !m.classifier.IsStub(method.Returns) {
		return m.unrecognized(method, "return type is not a stub")
	}
	return StubFactory
}

// IsResponseReceiver reports whether t is the runtime receiver interface, one
// embedding it, or any type with the full callback method set.
func (m *Matcher) IsResponseReceiver(t model.TypeRef) bool {
	if t.Name == ResponseReceiverType || m.model.IsSubtype(t, ResponseReceiverType) {
		return true
	}
	return m.model.HasMethods(t, receiverMethods...)
}

// ResponseType returns the value type delivered to a response receiver.
func (m *Matcher) ResponseType(t model.TypeRef) (model.TypeRef, bool) {
	return m.responseType(t, make(map[string]bool))
}

func (m *Matcher) responseType(t model.TypeRef, seen map[string]bool) (model.TypeRef, bool) {
	if len(t.Args) == 1 {
		return t.Args[0], true
	}
	if seen[t.Name] {
		return model.TypeRef{}, false
	}
	seen[t.Name] = true
	c := m.model.Lookup(t.Name)
	if c == nil {
		return model.TypeRef{}, false
	}
	for _, st := range c.Supertypes {
		if rt, ok := m.responseType(st, seen); ok {
			return rt, true
		}
	}
	return model.TypeRef{}, false
}

func (m *Matcher) unrecognized(method *model.Method, reason string) Shape {
	m.log.Debugw("Skipping method", logger.FieldMethod, method.Name, "reason", reason)
	return Unrecognized
}

// IsServiceName reports whether a simple type name follows the service
// wrapper convention.
func IsServiceName(simple string) bool {
	return strings.HasSuffix(simple, ServiceSuffix)
}
