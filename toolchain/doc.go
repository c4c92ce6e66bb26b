// Package toolchain drives the external shader tools used by a glshim
// Bridge: glslc (shaderc) compiles GLSL to SPIR-V and spirv-cross generates
// GLSL for the host dialect.
//
//	b := glshim.NewBridge(&toolchain.Glslc{}, &toolchain.SPIRVCross{})
//
// Both tools are located on PATH unless Path is set. The process runner can
// be replaced for testing or to sandbox the tools.
package toolchain
