// Package musr holds the data model shared by the single-histogram
// reduction packages: raw runs, RUN/GLOBAL block configuration, view
// settings, prepared data sets and the interfaces of the collaborators
// (theory, auxiliary functions, parameter table) that live outside this
// module.
//
// Times are in microseconds throughout; raw time resolutions are given in
// nanoseconds as they come from the data files.
package musr
