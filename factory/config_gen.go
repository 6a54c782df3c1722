package factory

import (
	"strings"

	"go.uber.org/zap"

	"github.com/bsmider/reactorgen/factory/model"
	"github.com/bsmider/reactorgen/factory/utils"
	"github.com/bsmider/reactorgen/logger"
)

// ConfigSynthesizer builds the dependency-injection config class of a service.
type ConfigSynthesizer struct {
	cfg     CodeGenConfig
	matcher *Matcher
	log     *zap.SugaredLogger
}

func NewConfigSynthesizer(cfg CodeGenConfig, matcher *Matcher, log *zap.SugaredLogger) *ConfigSynthesizer {
	if log == nil {
		log = logger.ComponentLogger("config")
	}
	return &ConfigSynthesizer{cfg: cfg, matcher: matcher, log: log}
}

// ConfigName is the qualified name of the config class of a service.
func ConfigName(basePackage string, service *model.Class) string {
	return model.Qualify(model.SubPackage(basePackage, ConfigPackage), service.SimpleName()+ConfigSuffix)
}

// FactoryMethodName maps (service, new...Stub) to reactor<Service><...Stub>.
func FactoryMethodName(service *model.Class, factory string) string {
	short := strings.ReplaceAll(service.SimpleName(), ServiceWord, "")
	rest, _ := utils.TrimPrefixFold(factory, FactoryPrefix)
	return ReactorPrefix + utils.Capitalize(utils.LowerFirst(short)+rest)
}

// ChannelParamName is the connection parameter of every factory method.
func ChannelParamName(channelLabel string) string {
	return ReactorPrefix + utils.Capitalize(channelLabel)
}

// Synthesize always returns a config class, possibly with no methods.
func (s *ConfigSynthesizer) Synthesize(svc *ServiceDeclaration) *model.Class {
	config := &model.Class{
		Name: ConfigName(s.cfg.BasePackage, svc.Class),
		Kind: model.KindStruct,
		Annotations: []model.Annotation{{
			Name:   AnnotationConfiguration,
			Values: map[string]string{"service": s.cfg.ServiceLabel},
		}},
		Generated: true,
	}

	for _, rpc := range svc.Methods {
		if rpc.Shape != StubFactory {
			continue
		}
		config.Methods = append(config.Methods, s.SynthesizeMethod(svc.Class, rpc.Method))
	}

	s.log.Infow("Synthesized config",
		logger.FieldClass, config.Name,
		logger.FieldCount, len(config.Methods))
	return config
}

// SynthesizeMethod builds StubUtils.<variantCall>(connection, Service::factory).
func (s *ConfigSynthesizer) SynthesizeMethod(service *model.Class, factory *model.Method) *model.Method {
	variant := s.matcher.Classifier().Classify(factory.Returns)
	param := model.Param{
		Name: ChannelParamName(s.cfg.ChannelLabel),
		Type: PromiseOf(model.PtrRef(ClientConnType)),
	}
	returns := PromiseOf(factory.Returns)

	s.log.Debugw("Synthesized factory method",
		logger.FieldService, service.Name,
		logger.FieldMethod, factory.Name,
		logger.FieldVariant, variant.String())

	return &model.Method{
		Name:    FactoryMethodName(service, factory.Name),
		Params:  []model.Param{param},
		Returns: returns,
		Body: model.Return{Value: model.Call{
			Target: model.TypeAccess{Type: model.Ref(StubUtilsType)},
			Func:   variant.FactoryCall(),
			Args: []model.Expr{
				model.Ident{Name: param.Name},
				model.MethodRef{Target: model.TypeAccess{Type: service.Ref()}, Method: factory.Name},
			},
			Result: returns,
		}},
		Annotations: []model.Annotation{{Name: AnnotationBean}},
	}
}
