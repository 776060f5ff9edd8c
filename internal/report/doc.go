// Package report renders tracker samples as static charts: PNG images via
// gonum/plot and a self-contained HTML page via go-echarts.
//
// Non-finite values (the -Inf log area of an emptied frontier and its +Inf
// progress) are left out of every series.
package report
