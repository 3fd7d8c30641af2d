package tensor

// Backend defines the interface that compute backends implement.
//
// The backend is always an explicit constructor argument (cpu.New()) passed
// into tensors, quantizers, and modules. There is no process-wide backend
// switch: two call sites can use two different backends without coupling.
//
// The operation set is intentionally small: element-wise arithmetic and
// matrix multiplication for quantized-inference demos, reductions for
// min/max calibration, and shape/type plumbing. Graph rewriting, fusion,
// and hardware dispatch belong to host frameworks, not here.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// Reduction operations (0-D scalar results).
	Sum(x *RawTensor) *RawTensor
	Min(x *RawTensor) *RawTensor
	Max(x *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Cast converts to a different data type.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
