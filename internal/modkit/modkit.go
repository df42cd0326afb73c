package modkit

import "censusbq/internal/modkit/module"

// Module is the common surface for modules that mount routes and expose ports
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
