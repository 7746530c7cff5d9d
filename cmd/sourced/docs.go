package main

// General API documentation for swaggo. The swagger build tag serves it at /swagger/.
//
// @title           sourced API
// @version         1.0
// @description     Hosts event sources, broadcasts events to their sinks and manages daemon-owned sinks.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
