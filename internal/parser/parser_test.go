package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/routelens/routelens/domain"
)

func parseJS(t *testing.T, source string) *Result {
	t.Helper()
	p := NewParser(Options{})
	defer p.Close()

	result, err := p.ParseFile(context.Background(), "test.js", []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	return result
}

func parseTSX(t *testing.T, source string) *Result {
	t.Helper()
	p := NewTypeScriptParser(Options{})
	defer p.Close()

	result, err := p.ParseFile(context.Background(), "test.tsx", []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	return result
}

func TestParseDefaultImport(t *testing.T) {
	result := parseJS(t, `import React from 'react';`)

	if len(result.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(result.Imports))
	}
	imp := result.Imports[0]
	if imp.Specifier != "react" {
		t.Errorf("Expected specifier 'react', got %q", imp.Specifier)
	}
	if imp.Kind != domain.ImportKindDefault {
		t.Errorf("Expected default import, got %s", imp.Kind)
	}
	if !imp.IsDefault {
		t.Error("Expected IsDefault")
	}
	if len(imp.Names) != 1 || imp.Names[0].Local != "React" {
		t.Errorf("Expected local binding React, got %+v", imp.Names)
	}
}

func TestParseNamedImports(t *testing.T) {
	result := parseJS(t, `import { useState, useEffect as effect } from 'react';`)

	if len(result.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(result.Imports))
	}
	imp := result.Imports[0]
	if imp.Kind != domain.ImportKindNamed {
		t.Errorf("Expected named import, got %s", imp.Kind)
	}
	if len(imp.Names) != 2 {
		t.Fatalf("Expected 2 names, got %+v", imp.Names)
	}
	if imp.Names[1].Imported != "useEffect" || imp.Names[1].Local != "effect" {
		t.Errorf("Expected alias effect for useEffect, got %+v", imp.Names[1])
	}
}

func TestParseNamespaceAndSideEffectImports(t *testing.T) {
	result := parseJS(t, `
import * as utils from './utils';
import './styles.css';
`)

	if len(result.Imports) != 2 {
		t.Fatalf("Expected 2 imports, got %d", len(result.Imports))
	}
	if result.Imports[0].Kind != domain.ImportKindNamespace {
		t.Errorf("Expected namespace import, got %s", result.Imports[0].Kind)
	}
	if result.Imports[0].Names[0].Local != "utils" {
		t.Errorf("Expected local utils, got %+v", result.Imports[0].Names)
	}
	if result.Imports[1].Kind != domain.ImportKindSideEffect {
		t.Errorf("Expected side-effect import, got %s", result.Imports[1].Kind)
	}
}

func TestParseDynamicImport(t *testing.T) {
	result := parseJS(t, `const mod = await import('./dynamic');`)

	if len(result.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(result.Imports))
	}
	imp := result.Imports[0]
	if imp.Kind != domain.ImportKindDynamic {
		t.Errorf("Expected dynamic import, got %s", imp.Kind)
	}
	if imp.Specifier != "./dynamic" {
		t.Errorf("Expected specifier ./dynamic, got %q", imp.Specifier)
	}
}

func TestParseLazyWrapper(t *testing.T) {
	result := parseJS(t, `
import { lazy } from 'react';
const Dashboard = lazy(() => import('./pages/Dashboard'));
`)

	var lazyImp *domain.Import
	for _, imp := range result.Imports {
		if imp.IsLazy {
			lazyImp = imp
		}
	}
	if lazyImp == nil {
		t.Fatal("Expected a lazy import")
	}
	if lazyImp.Specifier != "./pages/Dashboard" {
		t.Errorf("Expected unwrapped specifier, got %q", lazyImp.Specifier)
	}
	if len(lazyImp.Names) != 1 || lazyImp.Names[0].Local != "Dashboard" {
		t.Errorf("Expected binding Dashboard, got %+v", lazyImp.Names)
	}

	// The inner import() must not be recorded a second time
	dynamicCount := 0
	for _, imp := range result.Imports {
		if imp.Kind == domain.ImportKindDynamic {
			dynamicCount++
		}
	}
	if dynamicCount != 1 {
		t.Errorf("Expected exactly 1 dynamic import, got %d", dynamicCount)
	}
}

func TestParseRequire(t *testing.T) {
	result := parseJS(t, `const helpers = require('./helpers');`)

	if len(result.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(result.Imports))
	}
	imp := result.Imports[0]
	if imp.Kind != domain.ImportKindRequire {
		t.Errorf("Expected require import, got %s", imp.Kind)
	}
	if len(imp.Names) != 1 || imp.Names[0].Local != "helpers" {
		t.Errorf("Expected binding helpers, got %+v", imp.Names)
	}
}

func TestParseExports(t *testing.T) {
	result := parseJS(t, `
export const a = 1, b = 2;
export function helper() {}
export default function App() {}
`)

	names := make(map[string]bool)
	for _, exp := range result.Exports {
		names[exp.Name] = true
	}
	for _, want := range []string{"a", "b", "helper", "default"} {
		if !names[want] {
			t.Errorf("Expected export %q, got %v", want, names)
		}
	}
}

func TestParseReExports(t *testing.T) {
	result := parseJS(t, `
export { Button, Input as TextInput } from './controls';
export * from './layout';
`)

	if len(result.Exports) != 3 {
		t.Fatalf("Expected 3 exports, got %+v", result.Exports)
	}
	button := result.Exports[0]
	if !button.IsReExport() || button.Source != "./controls" {
		t.Errorf("Expected re-export from ./controls, got %+v", button)
	}
	alias := result.Exports[1]
	if alias.Name != "TextInput" || alias.Local != "Input" {
		t.Errorf("Expected TextInput alias for Input, got %+v", alias)
	}
	star := result.Exports[2]
	if star.Name != "*" || star.Source != "./layout" {
		t.Errorf("Expected export * from ./layout, got %+v", star)
	}
}

func TestParseMarkupRouteCandidates(t *testing.T) {
	result := parseTSX(t, `
import { Route } from 'react-router-dom';
import Dashboard from './Dashboard';

export default function App() {
  return (
    <Routes>
      <Route path="/dashboard" element={<Dashboard />} />
      <Route path="/settings" component={Settings} />
    </Routes>
  );
}
`)

	if len(result.Markup) != 2 {
		t.Fatalf("Expected 2 markup candidates, got %+v", result.Markup)
	}
	first := result.Markup[0]
	if first.Name != "Route" {
		t.Errorf("Expected element Route, got %q", first.Name)
	}
	if v := first.Attrs["path"]; !v.Static || v.Str != "/dashboard" {
		t.Errorf("Expected static path /dashboard, got %+v", v)
	}
	if v := first.Attrs["element"]; v.Ident != "Dashboard" {
		t.Errorf("Expected element ident Dashboard, got %+v", v)
	}
	second := result.Markup[1]
	if v := second.Attrs["component"]; v.Ident != "Settings" {
		t.Errorf("Expected component ident Settings, got %+v", v)
	}
}

func TestMarkupWithoutStaticPathIgnored(t *testing.T) {
	result := parseTSX(t, `
const p = buildPath();
const el = <Route path={p} element={<Page />} />;
`)

	if len(result.Markup) != 0 {
		t.Errorf("Expected no candidates for dynamic path, got %+v", result.Markup)
	}
}

func TestParseObjectRouteCandidates(t *testing.T) {
	result := parseJS(t, `
const routes = [
  { path: '/home', component: Home },
  { path: '/about', component: () => import('./About') },
  { path: dynamicPath(), component: Mystery },
];
`)

	if len(result.Objects) != 3 {
		t.Fatalf("Expected 3 object candidates, got %+v", result.Objects)
	}
	home := result.Objects[0]
	if !home.PathStatic || home.Path != "/home" || home.ComponentIdent != "Home" {
		t.Errorf("Unexpected home candidate: %+v", home)
	}
	about := result.Objects[1]
	if !about.ComponentLazy || about.ComponentSpecifier != "./About" {
		t.Errorf("Expected lazy component specifier ./About, got %+v", about)
	}
	dynamic := result.Objects[2]
	if dynamic.PathStatic {
		t.Errorf("Expected dynamic path to be non-static: %+v", dynamic)
	}
}

func TestParseToleratesSyntaxErrors(t *testing.T) {
	result := parseJS(t, `
import ok from './ok';
function broken( {
`)

	if len(result.Issues) == 0 {
		t.Error("Expected recorded parse issues")
	}
	if len(result.Imports) != 1 || result.Imports[0].Specifier != "./ok" {
		t.Errorf("Expected recovered import, got %+v", result.Imports)
	}
}

func TestSkipBinaryFile(t *testing.T) {
	p := NewParser(Options{})
	defer p.Close()

	result, err := p.ParseFile(context.Background(), "blob.js", []byte("abc\x00def"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Error("Expected binary file to be skipped")
	}
}

func TestSkipOversizedFile(t *testing.T) {
	p := NewParser(Options{MaxFileSize: 16})
	defer p.Close()

	result, err := p.ParseFile(context.Background(), "big.js", []byte(strings.Repeat("x", 64)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Error("Expected oversized file to be skipped")
	}
	if result.SkipReason == "" {
		t.Error("Expected a skip reason")
	}
}

func TestClassifySpecifier(t *testing.T) {
	cases := map[string]domain.SpecifierType{
		"./foo":        domain.SpecifierRelative,
		"../bar":       domain.SpecifierRelative,
		"/abs/path":    domain.SpecifierAbsolute,
		"react":        domain.SpecifierPackage,
		"node:fs":      domain.SpecifierBuiltin,
		"fs":           domain.SpecifierBuiltin,
		"@/components": domain.SpecifierAlias,
		"~/utils":      domain.SpecifierAlias,
	}
	for specifier, want := range cases {
		if got := classifySpecifier(specifier); got != want {
			t.Errorf("classifySpecifier(%q) = %s, want %s", specifier, got, want)
		}
	}
}

func TestIsSourceFile(t *testing.T) {
	if !IsSourceFile("a/b/c.tsx") {
		t.Error("Expected .tsx to be a source file")
	}
	if IsSourceFile("image.png") {
		t.Error("Expected .png not to be a source file")
	}
}
