// Package glshim translates desktop-flavored GLSL for OpenGL ES drivers.
//
// # Overview
//
// glshim sits between an application and a GL driver that only accepts
// OpenGL ES Shading Language. Shader sources are upgraded to a version the
// GLSL compiler accepts, compiled to SPIR-V, stripped of the resource
// bindings the host driver must assign itself, and decompiled to the
// driver's dialect (ESSL 300 by default).
//
// # Deferred compile
//
// The application's glCompileShader cannot be translated because the shader
// kind and program are only known later. The Shim therefore does all work in
// AttachShader:
//
//	s := glshim.NewShim(driver, bridge)
//	p, _ := s.CreateProgram()
//	s.ShaderSource(sh, []string{src}, nil) // stored, not translated
//	s.AttachShader(p, sh)                 // translate, replace, compile, attach
//	s.CompileShader(sh)                   // acknowledged only
//	s.GetShaderiv(sh, glshim.CompileStatus) // True, once
//	s.LinkProgram(p)                      // link, then release the converter
//
// # Pipeline
//
// A Bridge owns the Compiler and Decompiler and a bounded translation cache.
// The toolchain package provides both capabilities on top of glslc and
// spirv-cross:
//
//	b := glshim.NewBridge(&toolchain.Glslc{}, &toolchain.SPIRVCross{},
//		glshim.WithEnv(glshim.ConfigFromEnv(os.LookupEnv)))
//
// # Logging
//
// glshim logs through log/slog and is silent by default. Use SetLogger to
// enable output; LIBGL_VGPU_DUMP=1 logs every source at Info level.
package glshim
