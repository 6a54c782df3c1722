package factory

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/utils"
	"github.com/bsmider/reactorgen/logger"
)

// Annotations attached to synthesized classes and methods. The generator
// passes them through to the emitter untouched.
const (
	AnnotationService                 = "Service"
	AnnotationRequiredArgsConstructor = "RequiredArgsConstructor"
	AnnotationConfiguration           = "Configuration"
	AnnotationBean                    = "Bean"
)

// Parameter names of synthesized adapter literals.
const (
	adapterRequestName  = "req"
	adapterReceiverName = "rr"
)

// ContextType is passed context.Background() by adapters.
const ContextType = "context.Context"

// PromiseOf wraps t in the runtime promise type.
func PromiseOf(t model.TypeRef) model.TypeRef {
	return model.PtrRef(PromiseType, t)
}

// ClientSynthesizer builds the reactive client class of a stub.
type ClientSynthesizer struct {
	cfg     CodeGenConfig
	matcher *Matcher
	log     *zap.SugaredLogger
}

func NewClientSynthesizer(cfg CodeGenConfig, matcher *Matcher, log *zap.SugaredLogger) *ClientSynthesizer {
	if log == nil {
		log = logger.ComponentLogger("client")
	}
	return &ClientSynthesizer{cfg: cfg, matcher: matcher, log: log}
}

// ClientName is the qualified name of the client generated for a service.
func ClientName(basePackage string, service *model.Class) string {
	return model.Qualify(basePackage, strings.ReplaceAll(service.SimpleName(), ServiceWord, "")+ClientSuffix)
}

// Synthesize returns the client class for stub, or nil when the stub has no
// unary callback method left after skipping the ones that fail.
func (s *ClientSynthesizer) Synthesize(stub *StubDeclaration) (*model.Class, []Skipped) {
	stubRef := model.PtrRef(stub.Class.Name)
	field := model.Field{
		Name: utils.LowerFirst(stub.Class.SimpleName()),
		Type: PromiseOf(stubRef),
	}
	client := &model.Class{
		Name:   ClientName(s.cfg.BasePackage, stub.Service.Class),
		Kind:   model.KindStruct,
		Fields: []model.Field{field},
		Annotations: []model.Annotation{
			{Name: AnnotationService},
			{Name: AnnotationRequiredArgsConstructor},
		},
		Generated: true,
	}

	var skipped []Skipped
	for _, rpc := range stub.Methods {
		if rpc.Shape != UnaryCallback {
			continue
		}
		method, err := s.SynthesizeMethod(stub, field, rpc.Method)
		if err != nil {
			s.log.Warnw("Skipping client method",
				logger.FieldStub, stub.Class.Name,
				logger.FieldMethod, rpc.Method.Name,
				logger.FieldError, err)
			skipped = append(skipped, Skipped{Service: stub.Service.Class.Name, Method: rpc.Method.Name, Err: err})
			continue
		}
		client.Methods = append(client.Methods, method)
	}

	if len(client.Methods) == 0 {
		s.log.Debugw("Stub has no unary callback methods, no client generated", logger.FieldStub, stub.Class.Name)
		return nil, skipped
	}
	s.log.Infow("Synthesized client",
		logger.FieldClass, client.Name,
		logger.FieldCount, len(client.Methods))
	return client, skipped
}

// SynthesizeMethod builds the promise-returning counterpart of a callback
// method: field.flatMap(stub -> bridgeSingleCallback(request|nil, callback)).
// The callback is the method value stub.Name when the stub takes exactly
// (request, receiver) or (receiver). Other orders and a context parameter
// get an adapter literal that calls the stub with its own parameter order.
func (s *ClientSynthesizer) SynthesizeMethod(stub *StubDeclaration, field model.Field, source *model.Method) (*model.Method, error) {
	unsupported := func(format string, args ...any) error {
		return &UnsupportedCallbackError{Stub: stub.Class.Name, Method: source.Name, Reason: fmt.Sprintf(format, args...)}
	}

	receiverAt, requestAt := -1, -1
	var response model.TypeRef
	for i, p := range source.Params {
		if receiverAt < 0 && s.matcher.IsResponseReceiver(p.Type) {
			rt, ok := s.matcher.ResponseType(p.Type)
			if !ok {
				continue
			}
			receiverAt, response = i, rt
			continue
		}
		if strings.HasSuffix(p.Type.SimpleName(), RequestSuffix) {
			if requestAt >= 0 {
				return nil, unsupported("more than one request parameter (%s, %s)",
					source.Params[requestAt].Name, p.Name)
			}
			requestAt = i
		}
	}
	if receiverAt < 0 {
		return nil, &MissingResponseTypeError{Stub: stub.Class.Name, Method: source.Name}
	}
	if !s.acceptsReceiver(source.Params[receiverAt].Type) {
		return nil, unsupported("receiver type %s does not accept %s", source.Params[receiverAt].Type, ResponseReceiverType)
	}

	returns := PromiseOf(response)
	method := &model.Method{Name: source.Name, Returns: returns}

	var (
		requestArg  model.Expr = model.Nil{}
		requestName string
	)
	if requestAt >= 0 {
		param := source.Params[requestAt]
		if param.Name == "_" || param.Name == "" {
			param.Name = "request"
		}
		method.Params = []model.Param{param}
		requestName = param.Name
		requestArg = model.Ident{Name: param.Name}
	}
	stubName := stubParamName(requestName)

	direct := receiverAt == len(source.Params)-1 && len(source.Params) == 1+boolInt(requestAt >= 0) &&
		isPlainReceiver(source.Params[receiverAt].Type)
	var callback model.Expr = model.MethodRef{Target: model.Ident{Name: stubName}, Method: source.Name}
	if !direct {
		adapter, err := s.adapter(stubName, source, requestAt, receiverAt, response, unsupported)
		if err != nil {
			return nil, err
		}
		callback = adapter
	}

	bridge := model.Call{
		Target: model.TypeAccess{Type: model.Ref(BridgeType)},
		Func:   "bridgeSingleCallback",
		Args:   []model.Expr{requestArg, callback},
		Result: returns,
	}
	method.Body = model.Return{Value: model.Call{
		Target: model.FieldRead{Field: field.Name},
		Func:   "flatMap",
		Args: []model.Expr{model.Lambda{
			Param: model.Param{Name: stubName, Type: model.PtrRef(stub.Class.Name)},
			Body:  bridge,
		}},
		Result: returns,
	}}
	return method, nil
}

// adapter builds func(req, rr) { stub.Name(...) } with the stub's own
// argument order. A context parameter receives context.Background().
func (s *ClientSynthesizer) adapter(stubName string, source *model.Method, requestAt, receiverAt int, response model.TypeRef,
	unsupported func(string, ...any) error) (model.Callback, error) {
	reqParam := model.Param{Name: "_", Type: model.Ref("any")}
	if requestAt >= 0 {
		reqParam = model.Param{Name: adapterRequestName, Type: source.Params[requestAt].Type}
	}
	rrParam := model.Param{Name: adapterReceiverName, Type: model.Ref(ResponseReceiverType, response)}

	args := make([]model.Expr, len(source.Params))
	for i, p := range source.Params {
		switch {
		case i == requestAt:
			args[i] = model.Ident{Name: reqParam.Name}
		case i == receiverAt:
			args[i] = model.Ident{Name: rrParam.Name}
		case p.Type.Name == ContextType && !p.Type.Pointer:
			args[i] = model.Call{Target: model.TypeAccess{Type: model.Ref(ContextType)}, Func: "background"}
		default:
			return model.Callback{}, unsupported("parameter %s of type %s has no value to pass", p.Name, p.Type)
		}
	}
	return model.Callback{
		Params: []model.Param{reqParam, rrParam},
		Body:   model.Call{Target: model.Ident{Name: stubName}, Func: source.Name, Args: args},
	}, nil
}

// acceptsReceiver reports whether a runtime ResponseReceiver can be passed
// where t is expected: t is the runtime type itself, or an interface that
// only embeds receivers.
func (s *ClientSynthesizer) acceptsReceiver(t model.TypeRef) bool {
	if isPlainReceiver(t) {
		return true
	}
	return !t.Pointer && s.onlyEmbedsReceivers(t.Name, make(map[string]bool))
}

func (s *ClientSynthesizer) onlyEmbedsReceivers(name string, seen map[string]bool) bool {
	if seen[name] {
		return false
	}
	seen[name] = true
	c := s.matcher.model.Lookup(name)
	if c == nil || c.Kind != model.KindInterface || len(c.Methods) > 0 || len(c.Supertypes) == 0 {
		return false
	}
	for _, st := range c.Supertypes {
		if !isPlainReceiver(st) && (st.Pointer || !s.onlyEmbedsReceivers(st.Name, seen)) {
			return false
		}
	}
	return true
}

func isPlainReceiver(t model.TypeRef) bool {
	return t.Name == ResponseReceiverType && len(t.Args) == 1 && !t.Pointer
}

// stubParamName keeps the lambda parameter from shadowing the request.
func stubParamName(request string) string {
	if request != StubParamName {
		return StubParamName
	}
	for i := 2; ; i++ {
		if name := StubParamName + strconv.Itoa(i); name != request {
			return name
		}
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
