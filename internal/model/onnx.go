package model

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

// ONNXRuntime owns the process-wide onnxruntime environment.
type ONNXRuntime struct {
	mu     sync.Mutex
	closed bool
}

func NewONNXRuntime(libraryPath string) (*ONNXRuntime, error) {
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, &domain.Error{
			Op:   "model.onnx_runtime",
			Kind: domain.KindModelLoad,
			Msg:  "failed to initialize ONNX environment",
			Err:  err,
		}
	}
	return &ONNXRuntime{}, nil
}

// Open is an OpenFunc creating one ONNX session per domain.
func (rt *ONNXRuntime) Open(d *domain.Domain, a Artifact) (Classifier, error) {
	if _, err := os.Stat(a.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoArtifact, err)
	}

	metadata, err := ReadMetadata(a.MetadataPath)
	if err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(a.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect model: %w", err)
	}
	inputName, outputName, err := bindSignature(d, metadata, inputs, outputs)
	if err != nil {
		return nil, err
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(a.ModelPath,
		[]string{inputName}, []string{outputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxSession{
		session:      session,
		metadata:     metadata,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// bindSignature picks the input and output the session binds and checks their declared
// dimensions against the metadata. Dynamic axes in the model match any size.
func bindSignature(d *domain.Domain, meta Metadata, inputs, outputs []ort.InputOutputInfo) (string, string, error) {
	in, err := pickTensor("input", meta.InputName, inputs)
	if err != nil {
		return "", "", signatureError(d, err.Error())
	}
	out, err := pickTensor("output", meta.OutputName, outputs)
	if err != nil {
		return "", "", signatureError(d, err.Error())
	}

	if !sameDims(in.Dimensions, meta.InputShape) {
		return "", "", signatureError(d, fmt.Sprintf("model input %q has shape %v, metadata says %v", in.Name, in.Dimensions, meta.InputShape))
	}
	if !sameDims(out.Dimensions, meta.OutputShape) {
		return "", "", signatureError(d, fmt.Sprintf("model output %q has shape %v, metadata says %v", out.Name, out.Dimensions, meta.OutputShape))
	}
	return in.Name, out.Name, nil
}

func pickTensor(role, name string, infos []ort.InputOutputInfo) (ort.InputOutputInfo, error) {
	if name == "" {
		if len(infos) != 1 {
			return ort.InputOutputInfo{}, fmt.Errorf("expected one %s, model has %d", role, len(infos))
		}
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("model has no %s named %q", role, name)
}

func sameDims(model ort.Shape, want []int64) bool {
	if len(model) != len(want) {
		return false
	}
	for i, dim := range model {
		if dim > 0 && dim != want[i] {
			return false
		}
	}
	return true
}

func signatureError(d *domain.Domain, msg string) error {
	return &domain.Error{
		Op:     "model.open",
		Kind:   domain.KindConfiguration,
		Domain: d.Kind.String(),
		Msg:    msg,
	}
}

func (rt *ONNXRuntime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return nil
	}
	rt.closed = true
	return ort.DestroyEnvironment()
}

// onnxSession binds fixed input/output tensors, so it must not run concurrently.
type onnxSession struct {
	session      *ort.AdvancedSession
	metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func (s *onnxSession) Run(input []float32) ([]float32, error) {
	dst := s.inputTensor.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(dst), len(input))
	}
	copy(dst, input)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := s.outputTensor.GetData()
	probs := make([]float32, len(out))
	copy(probs, out)
	return probs, nil
}

func (s *onnxSession) Metadata() Metadata {
	return s.metadata
}

func (s *onnxSession) Close() error {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
